// Package detect decides which language toolchains a repository actually uses,
// from positive on-disk evidence only, and resolves a concrete tool per
// enabled language. Detection is a pure function of current disk state: it is
// re-evaluated fresh on every run and never cached.
package detect

// Language identifies a supported language section of the managed hook. The
// set is closed; adding a language means adding a variant here plus its
// evidence table and script section.
type Language string

const (
	LangJSTS       Language = "js-ts"
	LangPython     Language = "python"
	LangJavaKotlin Language = "java-kotlin"
	LangGo         Language = "go"
	LangShell      Language = "shell"
	LangTerraform  Language = "terraform"
	LangCCpp       Language = "c-cpp"
	LangRuby       Language = "ruby"
	LangRust       Language = "rust"
)

// Languages lists all supported languages in stable order.
func Languages() []Language {
	return []Language{
		LangJSTS, LangPython, LangJavaKotlin, LangGo, LangShell,
		LangTerraform, LangCCpp, LangRuby, LangRust,
	}
}

// ProofSource classifies where a piece of evidence came from.
type ProofSource string

const (
	ProofManifest    ProofSource = "manifest"
	ProofLockfile    ProofSource = "lockfile"
	ProofConfig      ProofSource = "config"
	ProofShallowScan ProofSource = "shallow-scan"
)

// Proof is one positive signal that a repository uses a language. Proofs are
// purely additive; no proof ever removes another.
type Proof struct {
	Source ProofSource `json:"source"`
	Detail string      `json:"detail"`          // matched filename or pattern
	Files  int         `json:"files,omitempty"` // matched file count for scan hits
}

// Evidence maps each language to its ordered proof list. A language is enabled
// iff its proof list is non-empty; absence of evidence is the only disabling
// condition.
type Evidence map[Language][]Proof

// Enabled reports whether lang has at least one proof.
func (e Evidence) Enabled(lang Language) bool {
	return len(e[lang]) > 0
}

// add appends a proof for lang.
func (e Evidence) add(lang Language, p Proof) {
	e[lang] = append(e[lang], p)
}
