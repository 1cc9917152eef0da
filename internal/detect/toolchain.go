package detect

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// JSTSTool selects the JS/TS formatter+linter combination.
type JSTSTool string

const (
	JSTSBiome          JSTSTool = "biome"
	JSTSPrettierESLint JSTSTool = "prettier+eslint"
)

// PythonTool selects the Python formatter/lint-fixer.
type PythonTool string

const (
	PythonRuff  PythonTool = "ruff"
	PythonBlack PythonTool = "black"
)

// JavaKotlinTool selects the Java/Kotlin formatter.
type JavaKotlinTool string

const (
	JavaKotlinSpotless JavaKotlinTool = "spotless"
	JavaKotlinKtlint   JavaKotlinTool = "ktlint"
)

// ChoiceKind records whether a tool was picked from a config signal or fell
// back to the fixed default.
type ChoiceKind string

const (
	ChoiceDetected ChoiceKind = "detected"
	ChoiceDefault  ChoiceKind = "default"
)

// Choice is a resolved tool for one language, with the secondary signal that
// justified it. Reason is empty for defaults.
type Choice[T ~string] struct {
	Tool   T
	Kind   ChoiceKind
	Reason string
}

// Settings is the full resolved toolchain set rendered into the managed
// block. Nil pointer fields mean the language had no evidence and its section
// is omitted. Exactly one choice exists per enabled language.
type Settings struct {
	Enabled bool

	JSTS        *Choice[JSTSTool]
	TSTypecheck bool
	Python      *Choice[PythonTool]
	JavaKotlin  *Choice[JavaKotlinTool]

	GoEnabled        bool
	ShellEnabled     bool
	TerraformEnabled bool
	CCppEnabled      bool
	RubyEnabled      bool

	// CargoManifestDir is where cargo fmt runs from; empty disables the
	// Rust section even when Rust evidence exists (ambiguous manifest).
	CargoManifestDir string
}

// Resolve maps evidence to a toolchain set. It is a pure mapping of the
// evidence plus the secondary config signals present under root: same inputs,
// same choices.
func Resolve(evidence Evidence, root string, cargoManifestDir string) Settings {
	s := Settings{
		Enabled:          true,
		GoEnabled:        evidence.Enabled(LangGo),
		ShellEnabled:     evidence.Enabled(LangShell),
		TerraformEnabled: evidence.Enabled(LangTerraform),
		CCppEnabled:      evidence.Enabled(LangCCpp),
		RubyEnabled:      evidence.Enabled(LangRuby),
	}

	if evidence.Enabled(LangJSTS) {
		choice := chooseJSTSTool(root)
		s.JSTS = &choice
		s.TSTypecheck = isFile(filepath.Join(root, "tsconfig.json"))
	}
	if evidence.Enabled(LangPython) {
		choice := choosePythonTool(root)
		s.Python = &choice
	}
	if evidence.Enabled(LangJavaKotlin) {
		choice := chooseJavaKotlinTool(root)
		s.JavaKotlin = &choice
	}
	if evidence.Enabled(LangRust) {
		s.CargoManifestDir = cargoManifestDir
	}

	return s
}

// chooseJSTSTool prefers Biome when a biome config exists, then
// Prettier/ESLint on explicit config, defaulting to Prettier/ESLint.
func chooseJSTSTool(root string) Choice[JSTSTool] {
	if isFile(filepath.Join(root, "biome.json")) || isFile(filepath.Join(root, "biome.jsonc")) {
		return Choice[JSTSTool]{Tool: JSTSBiome, Kind: ChoiceDetected, Reason: "found biome.json/biome.jsonc"}
	}
	if hasPrettierOrESLintConfig(root) {
		return Choice[JSTSTool]{Tool: JSTSPrettierESLint, Kind: ChoiceDetected, Reason: "found Prettier/ESLint config"}
	}
	return Choice[JSTSTool]{Tool: JSTSPrettierESLint, Kind: ChoiceDefault}
}

// choosePythonTool prefers Ruff when configured, then Black when configured.
// The default is Ruff because it both formats and lint-fixes.
func choosePythonTool(root string) Choice[PythonTool] {
	cfg := readPyprojectTools(root)
	switch {
	case isFile(filepath.Join(root, "ruff.toml")) || isFile(filepath.Join(root, ".ruff.toml")):
		return Choice[PythonTool]{Tool: PythonRuff, Kind: ChoiceDetected, Reason: "found ruff.toml/.ruff.toml"}
	case cfg.hasRuff:
		return Choice[PythonTool]{Tool: PythonRuff, Kind: ChoiceDetected, Reason: "found [tool.ruff] in pyproject.toml"}
	case cfg.hasBlack:
		return Choice[PythonTool]{Tool: PythonBlack, Kind: ChoiceDetected, Reason: "found [tool.black] in pyproject.toml"}
	default:
		return Choice[PythonTool]{Tool: PythonRuff, Kind: ChoiceDefault}
	}
}

// chooseJavaKotlinTool prefers Spotless for Gradle projects, else ktlint.
func chooseJavaKotlinTool(root string) Choice[JavaKotlinTool] {
	gradleMarkers := []string{"gradlew", "build.gradle", "build.gradle.kts"}
	for _, name := range gradleMarkers {
		if isFile(filepath.Join(root, name)) {
			return Choice[JavaKotlinTool]{Tool: JavaKotlinSpotless, Kind: ChoiceDetected, Reason: "found " + name}
		}
	}
	return Choice[JavaKotlinTool]{Tool: JavaKotlinKtlint, Kind: ChoiceDefault}
}

type pyprojectTools struct {
	hasRuff  bool
	hasBlack bool
}

// readPyprojectTools parses pyproject.toml and reports whether [tool.ruff] or
// [tool.black] tables are present. Parse failures mean no signal.
func readPyprojectTools(root string) pyprojectTools {
	data, err := os.ReadFile(filepath.Join(root, "pyproject.toml")) // #nosec G304 -- repo-root relative
	if err != nil {
		return pyprojectTools{}
	}

	var parsed struct {
		Tool map[string]interface{} `toml:"tool"`
	}
	if err := toml.Unmarshal(data, &parsed); err != nil {
		return pyprojectTools{}
	}

	_, hasRuff := parsed.Tool["ruff"]
	_, hasBlack := parsed.Tool["black"]
	return pyprojectTools{hasRuff: hasRuff, hasBlack: hasBlack}
}

// hasPrettierOrESLintConfig checks the well-known config filenames plus the
// package.json embedded-config keys.
func hasPrettierOrESLintConfig(root string) bool {
	configs := []string{
		".prettierrc", ".prettierrc.json", ".prettierrc.yaml", ".prettierrc.yml",
		".prettierrc.js", ".prettierrc.cjs", "prettier.config.js", "prettier.config.cjs", "prettier.config.mjs",
		".eslintrc", ".eslintrc.json", ".eslintrc.yaml", ".eslintrc.yml",
		".eslintrc.js", ".eslintrc.cjs", "eslint.config.js", "eslint.config.cjs", "eslint.config.mjs",
	}
	for _, name := range configs {
		if isFile(filepath.Join(root, name)) {
			return true
		}
	}

	data, err := os.ReadFile(filepath.Join(root, "package.json")) // #nosec G304 -- repo-root relative
	if err != nil {
		return false
	}
	// Strong-signal key check; full JSON parsing is not needed here.
	text := string(data)
	for _, key := range []string{`"eslintConfig"`, `"prettier"`, `"eslint"`} {
		if strings.Contains(text, key) {
			return true
		}
	}
	return false
}
