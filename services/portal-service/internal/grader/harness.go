package grader

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Dharaneeshsl/CSEA-EVENT-PORTAL/services/portal-service/internal/executor"
)

// CaseResult is the outcome of one visible test.
type CaseResult struct {
	Name     string `json:"name"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Passed   bool   `json:"passed"`
}

type harnessOutput struct {
	visible []bool
	cases   []CaseResult
	hidden  int
}

// buildHarness wraps the submitted source with a program that runs the
// puzzle's tests and prints a machine readable report.
func buildHarness(lang executor.Language, p Puzzle, source string) string {
	if lang == executor.LangC {
		return buildCHarness(p, source)
	}
	return buildPythonHarness(p, source)
}

func buildPythonHarness(p Puzzle, source string) string {
	var b strings.Builder
	total := len(p.Visible) + 1

	b.WriteString(source)
	b.WriteString("\n\nimport json\n\n")
	b.WriteString("def _show(v):\n    try:\n        return json.dumps(v)\n    except Exception:\n        return repr(v)\n\n")
	b.WriteString("results=[]\ncases=[]\ntry:\n")
	fmt.Fprintf(&b, "    act1=bool(callable(%s))\n", p.Function)
	b.WriteString("    results.append(act1)\n")
	b.WriteString("    cases.append({'expected':'True','actual':str(act1),'passed':act1})\n")

	for i, c := range p.Visible {
		n := i + 2
		fmt.Fprintf(&b, "    exp%d=%s\n", n, c.Expected)
		fmt.Fprintf(&b, "    act%d=%s\n", n, c.Call)
		fmt.Fprintf(&b, "    results.append(act%d==exp%d)\n", n, n)
		fmt.Fprintf(&b, "    cases.append({'expected':_show(exp%d),'actual':_show(act%d),'passed':bool(act%d==exp%d)})\n", n, n, n, n)
	}

	b.WriteString("    hidden=0\n")
	for _, h := range p.Hidden {
		fmt.Fprintf(&b, "    hidden += 1 if %s else 0\n", h)
	}

	b.WriteString("except Exception as e:\n")
	b.WriteString("    print('ERROR:', e)\n")
	fmt.Fprintf(&b, "    results=[False]*%d\n", total)
	b.WriteString("    cases=[{'expected':'True','actual':'Exception','passed':False}]\n")
	b.WriteString("    hidden=0\n")
	b.WriteString("print(json.dumps({'visible':results,'hidden':hidden,'cases':cases}))\n")

	return b.String()
}

func buildCHarness(p Puzzle, source string) string {
	var b strings.Builder
	total := len(p.Visible) + 1

	b.WriteString("#include <stdio.h>\n#include <stdbool.h>\n")
	b.WriteString(source)
	b.WriteString("\n\nint main(void){\n")
	b.WriteString("  bool v1=true;\n")

	for i, c := range p.Visible {
		n := i + 2
		fmt.Fprintf(&b, "  int e%d=%s; int o%d=%s; bool v%d = o%d==e%d;\n", n, c.Expected, n, c.Call, n, n, n)
	}

	b.WriteString("  int h=0;\n")
	for _, h := range p.Hidden {
		fmt.Fprintf(&b, "  h += (%s) ? 1 : 0;\n", h)
	}

	vars := make([]string, 0, total)
	for n := 1; n <= total; n++ {
		vars = append(vars, fmt.Sprintf("v%d", n))
	}
	fmt.Fprintf(&b, "  printf(\"VIS:%s\\n\", %s);\n",
		strings.TrimSpace(strings.Repeat("%d ", total)), strings.Join(vars, ", "))

	b.WriteString("  printf(\"CASE:1 EXP:%d OUT:%d OK:%d\\n\", 1, 1, v1?1:0);\n")
	for n := 2; n <= total; n++ {
		fmt.Fprintf(&b, "  printf(\"CASE:%d EXP:%%d OUT:%%d OK:%%d\\n\", e%d, o%d, v%d?1:0);\n", n, n, n, n)
	}

	b.WriteString("  printf(\"HID:%d\\n\", h);\n")
	b.WriteString("  return 0;\n}\n")

	return b.String()
}

type pythonReport struct {
	Visible []bool `json:"visible"`
	Hidden  int    `json:"hidden"`
	Cases   []struct {
		Expected string `json:"expected"`
		Actual   string `json:"actual"`
		Passed   bool   `json:"passed"`
	} `json:"cases"`
}

// parsePythonOutput reads the JSON report printed on the last stdout line.
func parsePythonOutput(stdout string, visibleTotal int) (harnessOutput, bool) {
	out := harnessOutput{visible: make([]bool, visibleTotal)}

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	last := strings.TrimSpace(lines[len(lines)-1])
	if last == "" {
		return out, false
	}

	var report pythonReport
	if err := json.Unmarshal([]byte(last), &report); err != nil {
		return out, false
	}

	copy(out.visible, report.Visible)
	out.hidden = report.Hidden
	for i, c := range report.Cases {
		out.cases = append(out.cases, CaseResult{
			Name:     caseLabel(i),
			Expected: c.Expected,
			Actual:   c.Actual,
			Passed:   c.Passed,
		})
	}

	return out, true
}

var caseLine = regexp.MustCompile(`^CASE:(\d+)\s+EXP:(\S+)\s+OUT:(\S+)\s+OK:(\d+)`)

// parseCOutput reads the VIS, CASE and HID lines of a C harness run.
func parseCOutput(stdout string, visibleTotal int) (harnessOutput, bool) {
	out := harnessOutput{visible: make([]bool, visibleTotal)}
	found := false

	for _, line := range strings.Split(stdout, "\n") {
		line = strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(line, "VIS:"):
			found = true
			fields := strings.Fields(strings.TrimPrefix(line, "VIS:"))
			for i := 0; i < len(fields) && i < visibleTotal; i++ {
				out.visible[i] = fields[i] == "1"
			}
		case strings.HasPrefix(line, "HID:"):
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "HID:")))
			if err == nil {
				out.hidden = n
			}
		case strings.HasPrefix(line, "CASE:"):
			m := caseLine.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			idx, _ := strconv.Atoi(m[1])
			out.cases = append(out.cases, CaseResult{
				Name:     caseLabel(idx - 1),
				Expected: m[2],
				Actual:   m[3],
				Passed:   m[4] == "1",
			})
		}
	}

	return out, found
}
