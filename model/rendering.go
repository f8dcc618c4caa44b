package model

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

const (
	gridPosAlive = "██"
	gridPosDying = "▒▒"
	gridPosEmpty = "  "

	macosClearCmd = "clear"
)

// TerminalRenderer draws one z-layer of the extracted instances
type TerminalRenderer struct {
	Out io.Writer
}

func (r *TerminalRenderer) out() io.Writer {
	if r.Out == nil {
		return os.Stdout
	}
	return r.Out
}

// Display renders layer z of a size×size×size grid. Rows are y, columns x.
func (r *TerminalRenderer) Display(instances []Instance, size, layer int) {
	fmt.Fprint(r.out(), RenderLayer(instances, size, layer))
}

// RenderLayer lays out the instances whose z index equals layer as text
func RenderLayer(instances []Instance, size, layer int) string {
	glyphs := make([]string, size*size)
	for i := range glyphs {
		glyphs[i] = gridPosEmpty
	}

	half := float32(size) * 0.5
	for _, inst := range instances {
		x := int(inst.Position[0] + half)
		y := int(inst.Position[1] + half)
		z := int(inst.Position[2] + half)
		if z != layer || x < 0 || x >= size || y < 0 || y >= size {
			continue
		}
		glyphs[y*size+x] = glyphFor(inst)
	}

	var sb strings.Builder
	sb.Grow(size * (size*len(gridPosAlive) + 1))
	for y := range size {
		for x := range size {
			sb.WriteString(glyphs[y*size+x])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// alive cells are the only ones without a gray color
func glyphFor(inst Instance) string {
	if inst.Color == aliveColor {
		return gridPosAlive
	}
	return gridPosDying
}

// Clear clears the terminal screen
func (r *TerminalRenderer) Clear() {
	cmd := exec.Command(macosClearCmd)
	cmd.Stdout = r.out()
	if err := cmd.Run(); err != nil {
		fmt.Fprintln(r.out(), "Error clearing terminal:", err)
	}
}
