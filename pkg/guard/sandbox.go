package guard

import (
	"sync"

	"github.com/google/cel-go/cel"
)

// sandbox compiles and caches CEL programs for constraint condition_code
// strings. Only state, param, and user are bound into the evaluation
// environment — there is no way for a condition to reach a process-level
// name, import a package, or mutate anything, which satisfies the §9
// sandbox requirement without a hand-rolled interpreter.
type sandbox struct {
	mu    sync.Mutex
	env   *cel.Env
	cache map[string]cel.Program
}

func newSandbox() (*sandbox, error) {
	env, err := cel.NewEnv(
		cel.Variable("state", cel.DynType),
		cel.Variable("param", cel.DynType),
		cel.Variable("user", cel.DynType),
	)
	if err != nil {
		return nil, err
	}
	return &sandbox{env: env, cache: make(map[string]cel.Program)}, nil
}

// eval compiles (on first use) and runs code against the given activation
// maps, returning the boolean result. Any compile or runtime error is
// returned to the caller, which treats it as a constraint failure.
func (s *sandbox) eval(code string, state, param, user map[string]interface{}) (bool, error) {
	prg, err := s.program(code)
	if err != nil {
		return false, err
	}

	out, _, err := prg.Eval(map[string]interface{}{
		"state": state,
		"param": param,
		"user":  user,
	})
	if err != nil {
		return false, err
	}

	b, ok := out.Value().(bool)
	if !ok {
		return false, errNotBool
	}
	return b, nil
}

func (s *sandbox) program(code string) (cel.Program, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prg, ok := s.cache[code]; ok {
		return prg, nil
	}

	ast, issues := s.env.Compile(code)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	prg, err := s.env.Program(ast)
	if err != nil {
		return nil, err
	}
	s.cache[code] = prg
	return prg, nil
}

var errNotBool = sandboxValueError{"condition_code did not evaluate to a boolean"}

type sandboxValueError struct{ msg string }

func (e sandboxValueError) Error() string { return e.msg }
