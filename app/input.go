package app

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/expr-lang/expr"

	"raycast/diagram"
	"raycast/hal"
)

// ErrMalformedCoordinates reports prompt input that is not a pair of finite numbers.
var ErrMalformedCoordinates = errors.New("malformed coordinates")

const (
	promptPrefix = "add point: "
	maxPromptLen = 64

	// panStep is the share of the viewport extent moved per arrow key.
	panStep = 0.1
)

// dispatcher routes input events to the diagram. It is driven from Step only.
type dispatcher struct {
	d   *diagram.Diagram
	log hal.Logger

	prompting bool
	prompt    []rune
}

func (x *dispatcher) pointer(ev hal.PointerEvent) {
	switch ev.Kind {
	case hal.PointerMove:
		x.d.HandlePointerMove(float64(ev.X), float64(ev.Y))
	case hal.PointerClick:
		x.d.HandleClick(float64(ev.X), float64(ev.Y))
	}
}

// key handles one key event. It returns hal.ErrQuit when the user asks to exit.
func (x *dispatcher) key(ev hal.KeyEvent) error {
	if !ev.Press {
		return nil
	}
	if x.prompting {
		x.promptKey(ev)
		return nil
	}

	switch ev.Code {
	case hal.KeyEscape:
		return hal.ErrQuit
	case hal.KeyHome:
		x.d.Recenter()
		return nil
	case hal.KeyLeft:
		x.pan(-1, 0)
		return nil
	case hal.KeyRight:
		x.pan(1, 0)
		return nil
	case hal.KeyUp:
		x.pan(0, 1)
		return nil
	case hal.KeyDown:
		x.pan(0, -1)
		return nil
	}

	switch unicode.ToLower(ev.Rune) {
	case 'q':
		return hal.ErrQuit
	case 'c':
		x.d.Recenter()
	case 'a':
		x.prompting = true
		x.prompt = x.prompt[:0]
		x.showPrompt()
	}
	return nil
}

func (x *dispatcher) promptKey(ev hal.KeyEvent) {
	switch ev.Code {
	case hal.KeyEscape:
		x.prompting = false
		x.d.SetMessage("")
		return
	case hal.KeyEnter:
		x.prompting = false
		x.submit(string(x.prompt))
		return
	case hal.KeyBackspace, hal.KeyDelete:
		if n := len(x.prompt); n > 0 {
			x.prompt = x.prompt[:n-1]
		}
		x.showPrompt()
		return
	}
	if ev.Rune == '\n' || ev.Rune == '\r' {
		x.prompting = false
		x.submit(string(x.prompt))
		return
	}
	if unicode.IsPrint(ev.Rune) && len(x.prompt) < maxPromptLen {
		x.prompt = append(x.prompt, ev.Rune)
		x.showPrompt()
	}
}

func (x *dispatcher) showPrompt() {
	x.d.SetMessage(promptPrefix + string(x.prompt) + "_")
}

func (x *dispatcher) submit(s string) {
	px, py, err := ParseCoordinates(s)
	if err == nil {
		err = x.d.AddPoint(px, py)
	}
	if err != nil {
		msg := err.Error()
		// Compiler errors carry a multi-line source excerpt.
		if i := strings.IndexByte(msg, '\n'); i >= 0 {
			msg = msg[:i]
		}
		x.d.SetMessage("error: " + msg)
		x.logf("app: add point %q: %v", s, err)
		return
	}
	x.d.SetMessage("")
	x.logf("app: added point (%g, %g)", px, py)
}

func (x *dispatcher) pan(dx, dy float64) {
	vp := x.d.Viewport()
	sx := vp.Width() * panStep * dx
	sy := vp.Height() * panStep * dy
	if err := x.d.SetViewport(vp.MinX()+sx, vp.MaxX()+sx, vp.MinY()+sy, vp.MaxY()+sy); err != nil {
		x.logf("app: pan: %v", err)
	}
}

func (x *dispatcher) logf(format string, args ...any) {
	if x.log == nil {
		return
	}
	x.log.WriteLineString(fmt.Sprintf(format, args...))
}

var coordEnv = map[string]any{
	"pi": math.Pi,
	"e":  math.E,
}

var coordFuncs = []expr.Option{
	unaryFunc("sqrt", math.Sqrt),
	unaryFunc("sin", math.Sin),
	unaryFunc("cos", math.Cos),
	unaryFunc("tan", math.Tan),
	unaryFunc("ln", math.Log),
	expr.Function("pow", func(params ...any) (any, error) {
		if len(params) != 2 {
			return nil, fmt.Errorf("pow takes 2 arguments, got %d", len(params))
		}
		a, err := toFloat(params[0])
		if err != nil {
			return nil, err
		}
		b, err := toFloat(params[1])
		if err != nil {
			return nil, err
		}
		return math.Pow(a, b), nil
	}),
}

func unaryFunc(name string, fn func(float64) float64) expr.Option {
	return expr.Function(name, func(params ...any) (any, error) {
		if len(params) != 1 {
			return nil, fmt.Errorf("%s takes 1 argument, got %d", name, len(params))
		}
		v, err := toFloat(params[0])
		if err != nil {
			return nil, err
		}
		return fn(v), nil
	})
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case float64:
		return n, nil
	default:
		return 0, fmt.Errorf("not a number: %v", v)
	}
}

// ParseCoordinates parses "x, y" (or "x y") where each side is an arithmetic expression
// such as "2*pi" or "-sqrt(2)".
func ParseCoordinates(s string) (x, y float64, err error) {
	parts := splitCoordinates(s)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%q: want two values: %w", s, ErrMalformedCoordinates)
	}
	if x, err = evalNumber(parts[0]); err != nil {
		return 0, 0, err
	}
	if y, err = evalNumber(parts[1]); err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

// splitCoordinates splits on commas outside parentheses, or on whitespace when there are none.
func splitCoordinates(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if parts == nil {
		return strings.Fields(s)
	}
	return append(parts, strings.TrimSpace(s[start:]))
}

func evalNumber(src string) (float64, error) {
	if src == "" {
		return 0, fmt.Errorf("empty value: %w", ErrMalformedCoordinates)
	}
	opts := append([]expr.Option{expr.Env(coordEnv), expr.AsFloat64()}, coordFuncs...)
	program, err := expr.Compile(src, opts...)
	if err != nil {
		return 0, fmt.Errorf("%q: %w: %v", src, ErrMalformedCoordinates, err)
	}
	out, err := expr.Run(program, coordEnv)
	if err != nil {
		return 0, fmt.Errorf("%q: %w: %v", src, ErrMalformedCoordinates, err)
	}
	v, err := toFloat(out)
	if err != nil {
		return 0, fmt.Errorf("%q: %w: %v", src, ErrMalformedCoordinates, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q = %g: %w", src, v, ErrMalformedCoordinates)
	}
	return v, nil
}
