package hook

import (
	"path/filepath"
	"strings"

	"github.com/aymerick/raymond"

	"github.com/hookwright/hookwright/internal/detect"
)

// blockTemplate is the full managed block in handlebars form. The rendered
// script must stay POSIX-sh compatible: it runs under whatever /bin/sh the
// host provides. Its control flow mirrors the runtime protocol in
// protocol.go; change them together.
const blockTemplate = `{{{begin}}}
# hookwright settings (stored locally in this hook file, never in the repo):
#   enabled={{{enabled}}}
#   js_ts_tool={{{jsTsToolNote}}}
#   ts_typecheck={{{tsTypecheckNote}}}
#   python_tool={{{pythonToolNote}}}
#   java_kotlin_tool={{{javaKotlinToolNote}}}
#   go_enabled={{{goEnabled}}}
#   shell_enabled={{{shellEnabled}}}
#   terraform_enabled={{{terraformEnabled}}}
#   c_cpp_enabled={{{cCppEnabled}}}
#   ruby_enabled={{{rubyEnabled}}}
#   cargo_manifest_dir={{{cargoDirNote}}}
#   default_mode=fix
#   unstaged_changes=stash(--keep-index --include-untracked) + restore
#   rollback_on_error=git reset --hard + re-apply saved index diff (+ stash pop if used)

HW_ENABLED={{{enabled}}}
HW_JS_TS_TOOL="{{{jsTsTool}}}"
HW_TS_TYPECHECK={{{tsTypecheck}}}
HW_PYTHON_TOOL="{{{pythonTool}}}"
HW_JAVA_KOTLIN_TOOL="{{{javaKotlinTool}}}"
HW_CARGO_MANIFEST_DIR="{{{cargoDir}}}"

hw_echo() {
  printf '%s\n' "hookwright: $*"
}

hw_has_cmd() {
  command -v "$1" >/dev/null 2>&1
}

hw_staged_files() {
  git diff --cached --name-only --diff-filter=ACMR
}

hw_filter_by_ext() {
  # usage: hw_filter_by_ext "<files>" "<pattern1>" "<pattern2>" ...
  files="$1"
  shift
  if [ -z "$files" ]; then
    return 0
  fi

  for file in $files; do
    for pattern in "$@"; do
      case "$file" in
        $pattern)
          printf '%s\n' "$file"
          break
          ;;
      esac
    done
  done
}

hw_git_add_list() {
  files="$1"
  if [ -z "$files" ]; then
    return 0
  fi

  for file in $files; do
    git add -- "$file"
  done
}

hw_make_tmpdir() {
  # mktemp(1) flags differ slightly across platforms.
  tmp="$(mktemp -d 2>/dev/null || mktemp -d -t hookwright)"
  printf '%s' "$tmp"
}

hw_has_unstaged_or_untracked() {
  if ! git diff --quiet; then
    return 0
  fi
  if [ -n "$(git ls-files --others --exclude-standard)" ]; then
    return 0
  fi
  return 1
}

HW_TMPDIR=""
HW_DID_STASH=0
HW_SUCCESS=0

hw_rollback() {
  # Best-effort restore to the state from the start of the hook run. Every
  # step is attempted even when an earlier one partially fails.
  hw_echo "Rolling back index/worktree to pre-hook state..."

  git reset --hard >/dev/null 2>&1 || true

  if [ -s "$HW_TMPDIR/index.patch" ]; then
    git apply --index "$HW_TMPDIR/index.patch" >/dev/null 2>&1 || hw_echo "WARNING: could not re-apply saved index diff"
  fi

  if [ "$HW_DID_STASH" = "1" ]; then
    git stash pop --index >/dev/null 2>&1 || {
      hw_echo "WARNING: stash pop had conflicts; your stash was preserved. Run: git stash list"
      return 0
    }
  else
    if [ -s "$HW_TMPDIR/worktree.patch" ]; then
      git apply "$HW_TMPDIR/worktree.patch" >/dev/null 2>&1 || hw_echo "WARNING: could not re-apply saved worktree diff"
    fi
  fi
}

hw_cleanup() {
  status="$1"

  if [ "$status" -ne 0 ] && [ "$HW_SUCCESS" -ne 1 ]; then
    hw_rollback
  fi

  if [ "$status" -eq 0 ] && [ "$HW_DID_STASH" = "1" ]; then
    git stash pop --index >/dev/null 2>&1 || {
      hw_echo "WARNING: stash pop had conflicts; your stash was preserved. Run: git stash list"
      return 0
    }
  fi

  if [ -n "$HW_TMPDIR" ] && [ -d "$HW_TMPDIR" ]; then
    rm -rf "$HW_TMPDIR" >/dev/null 2>&1 || true
  fi
}

{{#if jsTs}}
hw_run_js_ts_biome() {
  files="$1"
  if [ -z "$files" ]; then
    return 0
  fi

  if hw_has_cmd biome; then
    hw_echo "Running biome (fix + lint)..."
    biome check --write $files
    return 0
  fi

  if hw_has_cmd npx; then
    hw_echo "Running biome via npx (fix + lint)..."
    npx --no-install biome check --write $files
    return 0
  fi

  hw_echo "biome not found; skipping JS/TS"
  return 0
}

hw_run_js_ts_prettier_eslint() {
  files_js_ts_json="$1"
  files_js_ts="$2"

  if [ -n "$files_js_ts_json" ]; then
    if hw_has_cmd prettier; then
      hw_echo "Running prettier (fix)..."
      prettier --write $files_js_ts_json
    elif hw_has_cmd npx; then
      hw_echo "Running prettier via npx (fix)..."
      npx --no-install prettier --write $files_js_ts_json
    else
      hw_echo "prettier not found; skipping prettier"
    fi
  fi

  if [ -n "$files_js_ts" ]; then
    if hw_has_cmd eslint; then
      hw_echo "Running eslint (fix)..."
      eslint --fix $files_js_ts
    elif hw_has_cmd npx; then
      hw_echo "Running eslint via npx (fix)..."
      npx --no-install eslint --fix $files_js_ts
    else
      hw_echo "eslint not found; skipping eslint"
    fi
  fi
}

hw_run_ts_typecheck() {
  files_ts="$1"
  if [ "$HW_TS_TYPECHECK" != "1" ]; then
    return 0
  fi
  if [ -z "$files_ts" ]; then
    return 0
  fi

  if hw_has_cmd tsc; then
    hw_echo "Running tsc --noEmit..."
    tsc -p tsconfig.json --noEmit
    return $?
  fi

  if hw_has_cmd npx; then
    hw_echo "Running tsc via npx --noEmit..."
    npx --no-install tsc -p tsconfig.json --noEmit
    return $?
  fi

  hw_echo "tsc not found; skipping TypeScript type check"
  return 0
}
{{/if}}
{{#if python}}
hw_run_python_ruff() {
  files="$1"
  if [ -z "$files" ]; then
    return 0
  fi

  if ! hw_has_cmd ruff; then
    hw_echo "ruff not found; skipping Python"
    return 0
  fi

  hw_echo "Running ruff format (fix)..."
  ruff format $files

  hw_echo "Running ruff check --fix..."
  ruff check --fix $files
}

hw_run_python_black() {
  files="$1"
  if [ -z "$files" ]; then
    return 0
  fi

  if ! hw_has_cmd black; then
    hw_echo "black not found; skipping Python"
    return 0
  fi

  hw_echo "Running black (fix)..."
  black $files
}
{{/if}}
{{#if goLang}}
hw_run_go() {
  files="$1"
  if [ -z "$files" ]; then
    return 0
  fi

  if ! hw_has_cmd gofmt; then
    hw_echo "gofmt not found; skipping Go"
    return 0
  fi

  hw_echo "Running gofmt (fix)..."
  gofmt -w $files
}
{{/if}}
{{#if shell}}
hw_run_shell() {
  files="$1"
  if [ -z "$files" ]; then
    return 0
  fi

  if hw_has_cmd shfmt; then
    hw_echo "Running shfmt (fix)..."
    shfmt -w $files
  else
    hw_echo "shfmt not found; skipping shell formatting"
  fi

  if hw_has_cmd shellcheck; then
    hw_echo "Running shellcheck (lint)..."
    shellcheck $files
  else
    hw_echo "shellcheck not found; skipping shellcheck"
  fi
}
{{/if}}
{{#if terraform}}
hw_run_terraform() {
  files="$1"
  if [ -z "$files" ]; then
    return 0
  fi

  if ! hw_has_cmd terraform; then
    hw_echo "terraform not found; skipping Terraform"
    return 0
  fi

  dirs="$(printf '%s\n' $files | while read -r f; do dirname "$f"; done | sort -u)"
  for d in $dirs; do
    hw_echo "Running terraform fmt in $d..."
    (cd "$d" && terraform fmt)
  done
}
{{/if}}
{{#if cCpp}}
hw_run_clang_format() {
  files="$1"
  if [ -z "$files" ]; then
    return 0
  fi

  if ! hw_has_cmd clang-format; then
    hw_echo "clang-format not found; skipping C/C++"
    return 0
  fi

  hw_echo "Running clang-format (fix)..."
  clang-format -i $files
}
{{/if}}
{{#if javaKotlin}}
hw_run_java_kotlin_spotless() {
  all_staged_files="$1"
  if [ -z "$all_staged_files" ]; then
    return 0
  fi

  if [ -x "./gradlew" ]; then
    hw_echo "Running ./gradlew spotlessApply (fix)..."
    ./gradlew -q spotlessApply
    hw_git_add_list "$all_staged_files"
    return 0
  fi

  if hw_has_cmd gradle; then
    hw_echo "Running gradle spotlessApply (fix)..."
    gradle -q spotlessApply
    hw_git_add_list "$all_staged_files"
    return 0
  fi

  hw_echo "spotless requested but gradle/gradlew not found; skipping"
  return 0
}

hw_run_java_kotlin_ktlint() {
  files="$1"
  if [ -z "$files" ]; then
    return 0
  fi

  if ! hw_has_cmd ktlint; then
    hw_echo "ktlint not found; skipping Kotlin"
    return 0
  fi

  hw_echo "Running ktlint -F (fix)..."
  ktlint -F $files
}
{{/if}}
{{#if ruby}}
hw_run_rubocop() {
  files="$1"
  if [ -z "$files" ]; then
    return 0
  fi

  if ! hw_has_cmd rubocop; then
    hw_echo "rubocop not found; skipping Ruby"
    return 0
  fi

  hw_echo "Running rubocop -A (fix)..."
  rubocop -A $files
}
{{/if}}
{{#if cargo}}
hw_run_cargo_fmt() {
  if ! hw_has_cmd cargo; then
    hw_echo "cargo not found; skipping cargo fmt"
    return 0
  fi

  # cargo fmt formats the workspace configured by this manifest dir.
  hw_echo "Running cargo fmt..."
  (cd "$HW_CARGO_MANIFEST_DIR" && cargo fmt)
}
{{/if}}

hw_main() {
  if [ "$HW_ENABLED" != "1" ]; then
    return 0
  fi

  set -eu

  if ! hw_has_cmd git; then
    hw_echo "git not found; skipping"
    return 0
  fi

  HW_TMPDIR="$(hw_make_tmpdir)"
  git diff --cached --binary > "$HW_TMPDIR/index.patch" 2>/dev/null || true
  git diff --binary > "$HW_TMPDIR/worktree.patch" 2>/dev/null || true

  if hw_has_unstaged_or_untracked; then
    hw_echo "Stashing unstaged/untracked changes (keeping index) before auto-fix..."
    git stash push --keep-index --include-untracked -m "hookwright pre-commit auto-stash" >/dev/null 2>&1
    HW_DID_STASH=1
  fi

  staged="$(hw_staged_files)"
  if [ -z "$staged" ]; then
    HW_SUCCESS=1
    return 0
  fi

  files_md_yaml="$(hw_filter_by_ext "$staged" "*.md" "*.markdown" "*.yml" "*.yaml")"
{{#if jsTs}}
  files_js_ts="$(hw_filter_by_ext "$staged" "*.js" "*.jsx" "*.ts" "*.tsx")"
  files_js_ts_json="$(hw_filter_by_ext "$staged" "*.js" "*.jsx" "*.ts" "*.tsx" "*.json")"
  files_ts="$(hw_filter_by_ext "$staged" "*.ts" "*.tsx" "tsconfig.json")"
{{/if}}
{{#if python}}
  files_py="$(hw_filter_by_ext "$staged" "*.py")"
{{/if}}
{{#if goLang}}
  files_go="$(hw_filter_by_ext "$staged" "*.go")"
{{/if}}
{{#if shell}}
  files_sh="$(hw_filter_by_ext "$staged" "*.sh" "*.bash" "*.zsh")"
{{/if}}
{{#if terraform}}
  files_tf="$(hw_filter_by_ext "$staged" "*.tf" "*.tfvars")"
{{/if}}
{{#if cCpp}}
  files_c_cpp="$(hw_filter_by_ext "$staged" "*.c" "*.cc" "*.cpp" "*.cxx" "*.h" "*.hh" "*.hpp" "*.hxx")"
{{/if}}
{{#if javaKotlin}}
  files_kt="$(hw_filter_by_ext "$staged" "*.kt" "*.kts")"
{{/if}}
{{#if ruby}}
  files_rb="$(hw_filter_by_ext "$staged" "*.rb")"
{{/if}}

{{#if jsTs}}
  # JS/TS + JSON
  if [ "$HW_JS_TS_TOOL" = "biome" ]; then
    hw_run_js_ts_biome "$files_js_ts_json"
  else
    hw_run_js_ts_prettier_eslint "$files_js_ts_json" "$files_js_ts"
  fi
  hw_git_add_list "$files_js_ts_json"
  hw_run_ts_typecheck "$files_ts"

  # Markdown/YAML rides along with the prettier toolchain when available.
  if [ -n "$files_md_yaml" ]; then
    if hw_has_cmd prettier; then
      hw_echo "Running prettier on Markdown/YAML (fix)..."
      prettier --write $files_md_yaml
      hw_git_add_list "$files_md_yaml"
    elif hw_has_cmd npx; then
      hw_echo "Running prettier via npx on Markdown/YAML (fix)..."
      npx --no-install prettier --write $files_md_yaml
      hw_git_add_list "$files_md_yaml"
    else
      hw_echo "prettier not found; skipping Markdown/YAML formatting"
    fi
  fi
{{/if}}
{{#if python}}
  # Python
  if [ "$HW_PYTHON_TOOL" = "ruff" ]; then
    hw_run_python_ruff "$files_py"
  else
    hw_run_python_black "$files_py"
  fi
  hw_git_add_list "$files_py"
{{/if}}
{{#if goLang}}
  # Go
  hw_run_go "$files_go"
  hw_git_add_list "$files_go"
{{/if}}
{{#if shell}}
  # Shell
  hw_run_shell "$files_sh"
  hw_git_add_list "$files_sh"
{{/if}}
{{#if terraform}}
  # Terraform
  hw_run_terraform "$files_tf"
  hw_git_add_list "$files_tf"
{{/if}}
{{#if cCpp}}
  # C/C++
  hw_run_clang_format "$files_c_cpp"
  hw_git_add_list "$files_c_cpp"
{{/if}}
{{#if javaKotlin}}
  # Java/Kotlin
  if [ "$HW_JAVA_KOTLIN_TOOL" = "spotless" ]; then
    hw_run_java_kotlin_spotless "$staged"
  else
    hw_run_java_kotlin_ktlint "$files_kt"
    hw_git_add_list "$files_kt"
  fi
{{/if}}
{{#if ruby}}
  # Ruby
  hw_run_rubocop "$files_rb"
  hw_git_add_list "$files_rb"
{{/if}}
{{#if cargo}}
  # Rust
  # cargo fmt works at the workspace level and may touch files beyond staging.
  hw_run_cargo_fmt
{{/if}}

  HW_SUCCESS=1
  return 0
}

trap 'hw_cleanup $?' EXIT HUP INT TERM
hw_main
{{{end}}}
`

// RenderBlock renders the full managed block for the resolved toolchain set.
// Rendering is deterministic: the same settings always produce byte-identical
// output, which is what makes repeat installs idempotent.
func RenderBlock(settings detect.Settings, repoRoot string) (string, error) {
	data := map[string]interface{}{
		"begin":              BlockBegin,
		"end":                BlockEnd,
		"enabled":            boolFlag(settings.Enabled),
		"jsTs":               settings.JSTS != nil,
		"jsTsTool":           "",
		"jsTsToolNote":       "(disabled)",
		"tsTypecheck":        boolFlag(settings.TSTypecheck),
		"tsTypecheckNote":    boolFlag(settings.TSTypecheck),
		"python":             settings.Python != nil,
		"pythonTool":         "",
		"pythonToolNote":     "(disabled)",
		"javaKotlin":         settings.JavaKotlin != nil,
		"javaKotlinTool":     "",
		"javaKotlinToolNote": "(disabled)",
		"goLang":             settings.GoEnabled,
		"goEnabled":          boolFlag(settings.GoEnabled),
		"shell":              settings.ShellEnabled,
		"shellEnabled":       boolFlag(settings.ShellEnabled),
		"terraform":          settings.TerraformEnabled,
		"terraformEnabled":   boolFlag(settings.TerraformEnabled),
		"cCpp":               settings.CCppEnabled,
		"cCppEnabled":        boolFlag(settings.CCppEnabled),
		"ruby":               settings.RubyEnabled,
		"rubyEnabled":        boolFlag(settings.RubyEnabled),
		"cargo":              settings.CargoManifestDir != "",
		"cargoDir":           "(none)",
		"cargoDirNote":       "(none)",
	}

	if settings.JSTS != nil {
		data["jsTsTool"] = string(settings.JSTS.Tool)
		data["jsTsToolNote"] = string(settings.JSTS.Tool)
	}
	if settings.Python != nil {
		data["pythonTool"] = string(settings.Python.Tool)
		data["pythonToolNote"] = string(settings.Python.Tool)
	}
	if settings.JavaKotlin != nil {
		data["javaKotlinTool"] = string(settings.JavaKotlin.Tool)
		data["javaKotlinToolNote"] = string(settings.JavaKotlin.Tool)
	}
	if settings.CargoManifestDir != "" {
		data["cargoDir"] = shellEscape(settings.CargoManifestDir)
		data["cargoDirNote"] = displayRelative(repoRoot, settings.CargoManifestDir)
	}

	out, err := raymond.Render(blockTemplate, data)
	if err != nil {
		return "", err
	}
	return collapseBlankRuns(out), nil
}

// boolFlag renders a shell 0/1 flag.
func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// shellEscape makes a path safe for embedding inside double quotes in the
// generated script: backslashes, quotes, dollar signs, and backticks are
// escaped to prevent command injection via exotic directory names.
func shellEscape(path string) string {
	var b strings.Builder
	b.Grow(len(path) + 2)
	for _, ch := range path {
		switch ch {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '$':
			b.WriteString(`\$`)
		case '`':
			b.WriteString("\\`")
		default:
			b.WriteRune(ch)
		}
	}
	return b.String()
}

// displayRelative renders path relative to base for the settings header.
func displayRelative(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	if rel == "." {
		return "."
	}
	return rel
}

// collapseBlankRuns squeezes runs of blank lines left behind by unrendered
// template sections down to a single blank line, keeping output stable across
// toolchain sets.
func collapseBlankRuns(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	blank := false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			if blank {
				continue
			}
			blank = true
			out = append(out, "")
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
