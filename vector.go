package figview

import (
	"fmt"
	"strings"

	"github.com/phanxgames/figview/internal/kiwi"
)

// FillRule is the closed vocabulary for path fill rules.
type FillRule int

const (
	FillRuleNonZero FillRule = iota
	FillRuleEvenOdd
)

// PathCommand is one emitted SVG path token, already formatted
// ("M x y", "L x y", "C x1 y1 x2 y2 x y", "Q x1 y1 x y", "Z").
type PathCommand string

// PathData is the decoded form of a vector geometry blob.
type PathData struct {
	FillRule FillRule
	Commands []PathCommand
}

// SVGPath joins the decoded commands into a single SVG path string, tokens
// separated by single spaces with trailing whitespace trimmed.
func (p PathData) SVGPath() string {
	toks := make([]string, len(p.Commands))
	for i, c := range p.Commands {
		toks[i] = string(c)
	}
	return strings.TrimSpace(strings.Join(toks, " "))
}

// DecodeVector decodes a vector geometry blob into fill rule and path
// commands. A malformed blob returns what was decoded up to the error rather
// than failing.
func DecodeVector(blob []byte) PathData {
	if len(blob) == 0 {
		return PathData{}
	}
	r := kiwi.NewReader(blob)
	fillByte, err := r.Raw(1)
	if err != nil {
		return PathData{}
	}
	fillRule := FillRuleNonZero
	if fillByte[0] == 1 {
		fillRule = FillRuleEvenOdd
	}

	var cmds []PathCommand
	for {
		opByte, err := r.Raw(1)
		if err != nil {
			break
		}
		switch opByte[0] {
		case 0:
			return PathData{FillRule: fillRule, Commands: cmds}
		case 1:
			xy, err := r.Float32Array(2)
			if err != nil {
				return PathData{FillRule: fillRule, Commands: cmds}
			}
			cmds = append(cmds, PathCommand(fmt.Sprintf("M %v %v", xy[0], xy[1])))
		case 2:
			xy, err := r.Float32Array(2)
			if err != nil {
				return PathData{FillRule: fillRule, Commands: cmds}
			}
			cmds = append(cmds, PathCommand(fmt.Sprintf("L %v %v", xy[0], xy[1])))
		case 3:
			v, err := r.Float32Array(6)
			if err != nil {
				return PathData{FillRule: fillRule, Commands: cmds}
			}
			cmds = append(cmds, PathCommand(fmt.Sprintf("C %v %v %v %v %v %v", v[0], v[1], v[2], v[3], v[4], v[5])))
		case 4:
			v, err := r.Float32Array(4)
			if err != nil {
				return PathData{FillRule: fillRule, Commands: cmds}
			}
			cmds = append(cmds, PathCommand(fmt.Sprintf("Q %v %v %v %v", v[0], v[1], v[2], v[3])))
		case 5:
			cmds = append(cmds, "Z")
		default:
			return PathData{FillRule: fillRule, Commands: cmds}
		}
	}
	return PathData{FillRule: fillRule, Commands: cmds}
}
