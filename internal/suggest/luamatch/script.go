package luamatch

import (
	"context"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/quill/internal/editor"
	"github.com/dshills/quill/internal/suggest"
)

// DefaultTimeout bounds a single match() call.
const DefaultTimeout = 50 * time.Millisecond

const matchFunc = "match"

// Script is a compiled Lua matcher.
//
// gopher-lua states are not goroutine-safe; the mutex serialises calls.
type Script struct {
	mu      sync.Mutex
	L       *lua.LState
	name    string
	timeout time.Duration
	closed  bool
}

// Option configures a Script.
type Option func(*Script)

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Script) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithGlobal sets a string global before the script runs (e.g. the trigger).
func WithGlobal(name, value string) Option {
	return func(s *Script) {
		s.L.SetGlobal(name, lua.LString(value))
	}
}

// Load compiles a script from source. name is used in error messages.
func Load(name, source string, opts ...Option) (*Script, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)

	s := &Script{L: L, name: name, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.do(func() error { return L.DoString(source) }); err != nil {
		L.Close()
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	if fn := L.GetGlobal(matchFunc); fn.Type() != lua.LTFunction {
		L.Close()
		return nil, fmt.Errorf("load %s: %w", name, ErrNoMatchFunc)
	}
	return s, nil
}

// CharScript returns Lua source equivalent to suggest.CharMatcher. The
// trigger is read from the global "trigger".
func CharScript() string {
	return `
function match(text)
  local idx = nil
  local i = 1
  while true do
    local s = string.find(text, trigger, i, true)
    if s == nil then break end
    idx = s
    i = s + 1
  end
  if idx == nil then return nil end
  local rest = string.sub(text, idx)
  if string.find(rest, " ", 1, true) then return nil end
  return idx, string.sub(rest, #trigger + 1), rest == trigger
end
`
}

func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
}

func (s *Script) do(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// Eval calls match(text) and returns the byte offset of the match start
// in text, the query and the start flag. ok is false when there is no match.
func (s *Script) Eval(text string) (start int, query string, isStart, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, "", false, false, ErrClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	top := s.L.GetTop()
	err = s.do(func() error {
		return s.L.CallByParam(lua.P{
			Fn:      s.L.GetGlobal(matchFunc),
			NRet:    3,
			Protect: true,
		}, lua.LString(text))
	})
	if err != nil {
		s.L.SetTop(top)
		return 0, "", false, false, fmt.Errorf("%s: %w", s.name, err)
	}

	rStart, rQuery, rIsStart := s.L.Get(-3), s.L.Get(-2), s.L.Get(-1)
	s.L.SetTop(top)

	if rStart == lua.LNil || rStart == lua.LFalse {
		return 0, "", false, false, nil
	}
	n, isNum := rStart.(lua.LNumber)
	if !isNum || int(n) < 1 || int(n) > len(text) {
		return 0, "", false, false, fmt.Errorf("%s: start %v: %w", s.name, rStart, ErrBadResult)
	}
	start = int(n) - 1

	query = text[start:]
	if q, isStr := rQuery.(lua.LString); isStr {
		query = string(q)
	}
	return start, query, lua.LVAsBool(rIsStart), true, nil
}

// Close releases the Lua state.
func (s *Script) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.L.Close()
	s.closed = true
	return nil
}

// Matcher adapts the script to suggest.Matcher. Script errors are reported
// to onError (if non-nil) and treated as no match.
func (s *Script) Matcher(onError func(error)) suggest.Matcher {
	return func(pos editor.ResolvedPos) (suggest.Match, bool) {
		node, ok := pos.NodeBefore()
		if !ok || !node.IsText() {
			return suggest.Match{}, false
		}

		current := node.Text
		start, query, isStart, ok, err := s.Eval(current)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return suggest.Match{}, false
		}
		if !ok || !utf8.ValidString(current[:start]) {
			return suggest.Match{}, false
		}

		text := current[start:]
		from := pos.Pos - utf8.RuneCountInString(current) + utf8.RuneCountInString(current[:start])
		return suggest.Match{
			From:    from,
			To:      pos.Pos,
			Text:    text,
			Query:   query,
			IsStart: isStart,
		}, true
	}
}
