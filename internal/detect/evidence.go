package detect

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/hookwright/hookwright/pkg/ignore"
)

// markerTable is one group of marker filenames sharing a proof source.
type markerTable struct {
	source ProofSource
	names  []string
}

// languageMarkers lists the filename evidence per language, in priority order.
var languageMarkers = map[Language][]markerTable{
	LangJSTS: {
		{ProofManifest, []string{"package.json", "tsconfig.json"}},
		{ProofLockfile, []string{"package-lock.json", "yarn.lock", "pnpm-lock.yaml", "bun.lockb"}},
	},
	LangPython: {
		{ProofManifest, []string{"pyproject.toml", "setup.py", "requirements.txt", "Pipfile"}},
		{ProofLockfile, []string{"uv.lock", "poetry.lock", "Pipfile.lock"}},
	},
	LangJavaKotlin: {
		{ProofManifest, []string{"build.gradle", "build.gradle.kts", "settings.gradle", "settings.gradle.kts", "pom.xml", "gradlew"}},
	},
	LangGo: {
		{ProofManifest, []string{"go.mod"}},
		{ProofLockfile, []string{"go.sum"}},
	},
	LangShell: {
		{ProofConfig, []string{".shellcheckrc"}},
	},
	LangTerraform: {
		{ProofLockfile, []string{".terraform.lock.hcl"}},
	},
	LangCCpp: {
		{ProofManifest, []string{"CMakeLists.txt", "compile_commands.json"}},
		{ProofConfig, []string{".clang-format"}},
	},
	LangRuby: {
		{ProofManifest, []string{"Gemfile"}},
		{ProofLockfile, []string{"Gemfile.lock"}},
		{ProofConfig, []string{".rubocop.yml"}},
	},
	LangRust: {
		{ProofManifest, []string{"Cargo.toml"}},
		{ProofLockfile, []string{"Cargo.lock"}},
	},
}

// scanPatterns are the shallow-scan extension patterns per language.
var scanPatterns = map[Language][]string{
	LangJSTS:       {"**/*.js", "**/*.jsx", "**/*.ts", "**/*.tsx"},
	LangPython:     {"**/*.py"},
	LangJavaKotlin: {"**/*.java", "**/*.kt", "**/*.kts"},
	LangGo:         {"**/*.go"},
	LangShell:      {"**/*.sh", "**/*.bash", "**/*.zsh"},
	LangTerraform:  {"**/*.tf", "**/*.tfvars"},
	LangCCpp:       {"**/*.c", "**/*.cc", "**/*.cpp", "**/*.cxx", "**/*.h", "**/*.hh", "**/*.hpp"},
	LangRuby:       {"**/*.rb"},
	LangRust:       {"**/*.rs"},
}

// Collector gathers language evidence for one repository.
type Collector struct {
	Root string
	// ExtraDirs are explicitly supplied nested project directories whose
	// marker files count as root-level evidence (e.g. a --manifest-dir).
	ExtraDirs []string
	// ScanDepth and ScanMaxFiles bound the shallow source scan.
	ScanDepth    int
	ScanMaxFiles int
}

// Collect returns the evidence found on disk right now. Signals are additive:
// a marker match and a scan hit for the same language simply stack. Any single
// positive signal enables a language (OR semantics).
func (c Collector) Collect() Evidence {
	evidence := make(Evidence, len(languageMarkers))

	dirs := append([]string{c.Root}, c.ExtraDirs...)
	for _, lang := range Languages() {
		for _, table := range languageMarkers[lang] {
			for _, name := range table.names {
				for _, dir := range dirs {
					if isFile(filepath.Join(dir, name)) {
						evidence.add(lang, Proof{Source: table.source, Detail: name})
						break
					}
				}
			}
		}
	}

	c.shallowScan(evidence)
	return evidence
}

// shallowScan walks the tree under Root, bounded by depth and total file
// count, and records one proof per language pattern with at least one hit.
func (c Collector) shallowScan(evidence Evidence) {
	depth := c.ScanDepth
	if depth <= 0 {
		depth = 3
	}
	maxFiles := c.ScanMaxFiles
	if maxFiles <= 0 {
		maxFiles = 4000
	}

	matcher := ignore.NewMatcher(c.Root)
	hits := make(map[Language]map[string]int)
	inspected := 0

	_ = filepath.WalkDir(c.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		rel, relErr := filepath.Rel(c.Root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if strings.Count(rel, "/")+1 > depth || matcher.Match(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if matcher.Match(rel, false) {
			return nil
		}
		if inspected >= maxFiles {
			return filepath.SkipAll
		}
		inspected++

		for _, lang := range Languages() {
			for _, pattern := range scanPatterns[lang] {
				if ok, _ := doublestar.Match(pattern, rel); ok {
					if hits[lang] == nil {
						hits[lang] = make(map[string]int)
					}
					hits[lang][pattern]++
					break
				}
			}
		}
		return nil
	})

	for _, lang := range Languages() {
		for _, pattern := range scanPatterns[lang] {
			if n := hits[lang][pattern]; n > 0 {
				evidence.add(lang, Proof{Source: ProofShallowScan, Detail: pattern, Files: n})
			}
		}
	}
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
