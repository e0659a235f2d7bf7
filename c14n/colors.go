package c14n

import (
	"strings"

	"github.com/dweve/hedl-format/go-hedl/ir"

	"github.com/fatih/color"
)

type Colorable struct {
	Type ir.ValueType
	Attr ColorAttr
}

type ColorAttr int

const (
	DirectiveColor ColorAttr = iota
	SepColor
	FieldColor
	TypeColor
	ValueColor
	HintColor
	DittoColor
	BlockColor
)

type Colors struct {
	Default func(string, ...any) string
	Map     map[Colorable]func(string, ...any) string
}

func NewColors() *Colors {
	colors := &Colors{
		Default: colorDefault,
		Map:     map[Colorable]func(string, ...any) string{},
	}
	for _, t := range ir.ValueTypes() {
		able := Colorable{
			Type: t,
			Attr: DirectiveColor,
		}
		colors.Map[able] = color.RGB(74, 92, 138).SprintfFunc()
		able.Attr = SepColor
		colors.Map[able] = color.RGB(255, 0, 196).SprintfFunc()
		able.Attr = FieldColor
		colors.Map[able] = color.RGB(196, 96, 16).SprintfFunc()
		able.Attr = TypeColor
		colors.Map[able] = color.RGB(128, 168, 196).SprintfFunc()
		able.Attr = HintColor
		colors.Map[able] = color.RGB(96, 96, 96).SprintfFunc()
		able.Attr = DittoColor
		colors.Map[able] = color.CyanString
		able.Attr = BlockColor
		colors.Map[able] = color.RGB(198, 198, 46).SprintfFunc()
	}
	able := Colorable{Attr: ValueColor}

	able.Type = ir.NullType
	colors.Map[able] = color.RGB(168, 0, 196).SprintfFunc()

	able.Type = ir.BoolType
	colors.Map[able] = color.CyanString

	able.Type = ir.IntType
	colors.Map[able] = color.RGB(128, 216, 236).SprintfFunc()

	able.Type = ir.FloatType
	colors.Map[able] = color.RGB(128, 216, 236).SprintfFunc()

	able.Type = ir.StringType
	colors.Map[able] = color.RGB(8, 196, 16).SprintfFunc()

	able.Type = ir.ReferenceType
	colors.Map[able] = color.RGB(196, 168, 128).SprintfFunc()

	able.Type = ir.TensorType
	colors.Map[able] = color.RGB(88, 158, 86).SprintfFunc()

	able.Type = ir.ExpressionType
	colors.Map[able] = color.RGB(198, 198, 46).SprintfFunc()

	for k, f := range colors.Map {
		colors.Map[k] = func(v string, _ ...any) string {
			return f(strings.Replace(v, "%", "%%", -1))
		}
	}
	return colors
}

func colorDefault(v string, _ ...any) string { return v }

func (c *Colors) Color(t ir.ValueType, a ColorAttr, s string) string {
	return c.Get(t, a)(s)
}

func (c *Colors) Get(t ir.ValueType, a ColorAttr) func(string, ...any) string {
	f := c.Map[Colorable{Type: t, Attr: a}]
	if f == nil {
		return c.Default
	}
	return f
}

func applyColor(es *EncState, t ir.ValueType, attr ColorAttr, v string) string {
	if es.Color == nil {
		return v
	}
	return es.Color(t, attr, v)
}
