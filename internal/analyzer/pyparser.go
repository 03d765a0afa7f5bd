package analyzer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"archviz/internal/apperr"
)

// PythonParser extracts a StructuralRecord from Python source with a
// line-oriented scanner. It recognizes top-level classes and functions,
// methods and fields inside class bodies, import statements (including
// relative imports), and the module docstring. It does not evaluate code.
type PythonParser struct{}

// Parse implements Parser.
func (p *PythonParser) Parse(relPath string, content []byte) (*StructuralRecord, error) {
	if !utf8.Valid(content) {
		return nil, &apperr.ParseError{Path: relPath, Detail: "content is not valid UTF-8"}
	}

	rec := &StructuralRecord{
		RelPath:  relPath,
		Language: "Python",
	}

	lines := strings.Split(string(content), "\n")

	var (
		currentClass  = -1 // index into rec.Types
		classIndent   = -1
		currentMethod = -1 // index into the current class's Methods
		methodIndent  = -1
		seenFields    map[string]bool
	)

	for lineNo, raw := range lines {
		line := strings.TrimRight(raw, " \t\r")
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		indent := indentWidth(line)

		// Module docstring: the first statement in the file.
		if rec.Doc == "" && len(rec.Types) == 0 && len(rec.Functions) == 0 &&
			len(rec.Imports) == 0 && isDocstringStart(trimmed) {
			rec.Doc = extractDocstring(lines, lineNo)
			continue
		}

		// Leaving a class or method body resets the tracking state.
		if currentClass >= 0 && indent <= classIndent {
			currentClass, classIndent = -1, -1
			currentMethod, methodIndent = -1, -1
		} else if currentMethod >= 0 && indent <= methodIndent {
			currentMethod, methodIndent = -1, -1
		}

		switch {
		case strings.HasPrefix(trimmed, "import "):
			for _, decl := range parseImportLine(trimmed) {
				rec.Imports = append(rec.Imports, decl)
			}

		case strings.HasPrefix(trimmed, "from "):
			decl, err := parseFromImport(trimmed)
			if err != nil {
				return nil, &apperr.ParseError{
					Path:   relPath,
					Detail: fmt.Sprintf("line %d: %v", lineNo+1, err),
				}
			}
			rec.Imports = append(rec.Imports, decl)

		case strings.HasPrefix(trimmed, "class "):
			name, bases, err := parseClassHeader(trimmed)
			if err != nil {
				return nil, &apperr.ParseError{
					Path:   relPath,
					Detail: fmt.Sprintf("line %d: %v", lineNo+1, err),
				}
			}
			td := TypeDecl{Name: name, Bases: bases, Line: lineNo + 1}
			if indent == 0 {
				rec.Types = append(rec.Types, td)
				currentClass = len(rec.Types) - 1
				classIndent = indent
				currentMethod, methodIndent = -1, -1
				seenFields = make(map[string]bool)
			}
			// Nested classes are intentionally skipped.

		case strings.HasPrefix(trimmed, "def ") || strings.HasPrefix(trimmed, "async def "):
			name, sig, err := parseDefHeader(trimmed)
			if err != nil {
				return nil, &apperr.ParseError{
					Path:   relPath,
					Detail: fmt.Sprintf("line %d: %v", lineNo+1, err),
				}
			}
			fd := FuncDecl{Name: name, Signature: sig, Line: lineNo + 1}
			if currentClass >= 0 && indent > classIndent {
				rec.Types[currentClass].Methods = append(rec.Types[currentClass].Methods, fd)
				currentMethod = len(rec.Types[currentClass].Methods) - 1
				methodIndent = indent
			} else if indent == 0 {
				rec.Functions = append(rec.Functions, fd)
			}

		default:
			// Instance attribute assignments inside methods, class-level
			// attributes directly in the class body.
			if currentClass >= 0 {
				if currentMethod >= 0 && indent > methodIndent {
					if name, ok := selfAssignment(trimmed); ok && !seenFields[name] {
						seenFields[name] = true
						rec.Types[currentClass].Fields = append(rec.Types[currentClass].Fields, FieldDecl{Name: name})
					}
				} else if indent > classIndent && currentMethod < 0 {
					if name, typ, ok := classAttribute(trimmed); ok && !seenFields[name] {
						seenFields[name] = true
						rec.Types[currentClass].Fields = append(rec.Types[currentClass].Fields, FieldDecl{Name: name, Type: typ})
					}
				}
			}
		}
	}

	return rec, nil
}

func indentWidth(line string) int {
	w := 0
	for _, c := range line {
		switch c {
		case ' ':
			w++
		case '\t':
			w += 4
		default:
			return w
		}
	}
	return w
}

func isDocstringStart(trimmed string) bool {
	return strings.HasPrefix(trimmed, `"""`) || strings.HasPrefix(trimmed, "'''")
}

// extractDocstring collects the docstring beginning at lines[start].
func extractDocstring(lines []string, start int) string {
	first := strings.TrimSpace(lines[start])
	quote := first[:3]
	body := first[3:]

	// Single-line docstring.
	if idx := strings.Index(body, quote); idx >= 0 {
		return strings.TrimSpace(body[:idx])
	}

	parts := []string{strings.TrimSpace(body)}
	for i := start + 1; i < len(lines); i++ {
		if idx := strings.Index(lines[i], quote); idx >= 0 {
			parts = append(parts, strings.TrimSpace(lines[i][:idx]))
			break
		}
		parts = append(parts, strings.TrimSpace(lines[i]))
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// parseImportLine handles "import a.b, c as d".
func parseImportLine(line string) []ImportDecl {
	rest := strings.TrimPrefix(line, "import ")
	var decls []ImportDecl
	for _, part := range strings.Split(rest, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		target := part
		var names []string
		if idx := strings.Index(part, " as "); idx >= 0 {
			target = strings.TrimSpace(part[:idx])
			names = []string{strings.TrimSpace(part[idx+4:])}
		}
		decls = append(decls, ImportDecl{Target: target, Names: names, External: true})
	}
	return decls
}

// parseFromImport handles "from .pkg import a, b as c". Relative imports
// (leading dots) always target the analyzed tree.
func parseFromImport(line string) (ImportDecl, error) {
	rest := strings.TrimPrefix(line, "from ")
	idx := strings.Index(rest, " import ")
	if idx < 0 {
		return ImportDecl{}, fmt.Errorf("malformed from-import %q", line)
	}
	target := strings.TrimSpace(rest[:idx])
	if target == "" {
		return ImportDecl{}, fmt.Errorf("malformed from-import %q", line)
	}

	var names []string
	nameList := strings.TrimSpace(rest[idx+len(" import "):])
	nameList = strings.Trim(nameList, "()")
	for _, n := range strings.Split(nameList, ",") {
		n = strings.TrimSpace(n)
		if n == "" || n == "\\" {
			continue
		}
		if asIdx := strings.Index(n, " as "); asIdx >= 0 {
			n = strings.TrimSpace(n[:asIdx])
		}
		names = append(names, n)
	}

	return ImportDecl{
		Target:   target,
		Names:    names,
		External: !strings.HasPrefix(target, "."),
	}, nil
}

// parseClassHeader handles "class Name(Base1, Base2):".
func parseClassHeader(line string) (name string, bases []string, err error) {
	rest := strings.TrimPrefix(line, "class ")
	colon := strings.LastIndexByte(rest, ':')
	if colon < 0 {
		return "", nil, fmt.Errorf("class header missing colon: %q", line)
	}
	header := strings.TrimSpace(rest[:colon])

	if open := strings.IndexByte(header, '('); open >= 0 {
		closing := strings.LastIndexByte(header, ')')
		if closing < open {
			return "", nil, fmt.Errorf("unbalanced parentheses in class header: %q", line)
		}
		name = strings.TrimSpace(header[:open])
		for _, b := range strings.Split(header[open+1:closing], ",") {
			b = strings.TrimSpace(b)
			// Keyword arguments like metaclass=... are not bases.
			if b == "" || strings.Contains(b, "=") {
				continue
			}
			bases = append(bases, b)
		}
	} else {
		name = header
	}

	if name == "" || strings.ContainsAny(name, " \t") {
		return "", nil, fmt.Errorf("invalid class name in %q", line)
	}
	return name, bases, nil
}

// parseDefHeader handles "def name(args) -> ret:" and the async variant.
func parseDefHeader(line string) (name, signature string, err error) {
	rest := strings.TrimPrefix(line, "async ")
	rest = strings.TrimPrefix(rest, "def ")
	open := strings.IndexByte(rest, '(')
	if open <= 0 {
		return "", "", fmt.Errorf("def header missing parameter list: %q", line)
	}
	name = strings.TrimSpace(rest[:open])
	if strings.ContainsAny(name, " \t") {
		return "", "", fmt.Errorf("invalid function name in %q", line)
	}
	signature = strings.TrimSuffix(strings.TrimSpace(rest), ":")
	return name, signature, nil
}

// selfAssignment matches "self.attr = ..." and "self.attr: T = ..." and
// returns the attribute name.
func selfAssignment(trimmed string) (string, bool) {
	if !strings.HasPrefix(trimmed, "self.") {
		return "", false
	}
	rest := trimmed[len("self."):]
	end := strings.IndexAny(rest, " =:.([")
	if end <= 0 {
		return "", false
	}
	// Require an assignment somewhere on the line so attribute reads and
	// method calls do not register as fields.
	if !strings.Contains(trimmed, "=") {
		return "", false
	}
	if strings.HasPrefix(rest[end:], ".") || strings.HasPrefix(rest[end:], "(") {
		return "", false
	}
	return rest[:end], true
}

// classAttribute matches class-body level "name = value" or "name: T"
// declarations.
func classAttribute(trimmed string) (name, typ string, ok bool) {
	if strings.HasPrefix(trimmed, "def ") || strings.HasPrefix(trimmed, "async ") ||
		strings.HasPrefix(trimmed, "@") || strings.HasPrefix(trimmed, "class ") {
		return "", "", false
	}

	// Annotated: "name: T" or "name: T = value".
	if colon := strings.IndexByte(trimmed, ':'); colon > 0 {
		candidate := strings.TrimSpace(trimmed[:colon])
		if isIdentifier(candidate) {
			rest := trimmed[colon+1:]
			if eq := strings.IndexByte(rest, '='); eq >= 0 {
				rest = rest[:eq]
			}
			return candidate, strings.TrimSpace(rest), true
		}
	}

	// Plain assignment: "name = value" (not "==").
	if eq := strings.IndexByte(trimmed, '='); eq > 0 && (eq+1 >= len(trimmed) || trimmed[eq+1] != '=') {
		candidate := strings.TrimSpace(trimmed[:eq])
		if isIdentifier(candidate) {
			return candidate, "", true
		}
	}
	return "", "", false
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
