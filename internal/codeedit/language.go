package codeedit

// Language is a syntax mode key as persisted in a code block payload.
type Language string

const (
	JavaScript Language = "javascript"
	Python     Language = "python"
	HTMLLang   Language = "html"
	CSS        Language = "css"
	JSON       Language = "json"
	SQL        Language = "sql"
	Bash       Language = "bash"
	PHP        Language = "php"
	Java       Language = "java"
	CPP        Language = "cpp"
	CSharp     Language = "csharp"
	Ruby       Language = "ruby"
	Go         Language = "go"
	Rust       Language = "rust"
	TypeScript Language = "typescript"
	Markdown   Language = "markdown"
	XML        Language = "xml"
	YAML       Language = "yaml"
	Plaintext  Language = "plaintext"
)

var supported = map[Language]bool{
	JavaScript: true, Python: true, HTMLLang: true, CSS: true, JSON: true,
	SQL: true, Bash: true, PHP: true, Java: true, CPP: true, CSharp: true,
	Ruby: true, Go: true, Rust: true, TypeScript: true, Markdown: true,
	XML: true, YAML: true, Plaintext: true,
}

// Comment markers per language. Languages not listed here use the default
// marker "//".
var commentMarkers = map[Language]string{
	Python: "#",
	Bash:   "#",
	Ruby:   "#",
	YAML:   "#",
	SQL:    "--",
}

const defaultCommentMarker = "//"

// ParseLanguage maps a stored language key to a supported mode. Unknown
// values fall back to plaintext rather than failing.
func ParseLanguage(s string) Language {
	lang := Language(s)
	if supported[lang] {
		return lang
	}
	return Plaintext
}

// Languages returns the supported language keys in a stable order.
func Languages() []Language {
	return []Language{
		JavaScript, Python, HTMLLang, CSS, JSON, SQL, Bash, PHP, Java, CPP,
		CSharp, Ruby, Go, Rust, TypeScript, Markdown, XML, YAML, Plaintext,
	}
}

// CommentMarker returns the single-line comment marker for the language.
func (l Language) CommentMarker() string {
	if marker, ok := commentMarkers[l]; ok {
		return marker
	}
	return defaultCommentMarker
}
