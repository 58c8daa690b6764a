package fixtures

import (
	"fmt"
	"strings"
)

// ValidationError 검증 실패 (시드 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the file-level constraints.
// Field rules (direction, quantity, clock format) are left to the journal service.
func Validate(fx *Fixtures) error {
	names := make(map[string]struct{}, len(fx.Strategies))
	for i, s := range fx.Strategies {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return ValidationError{fmt.Sprintf("strategies[%d].name", i), "required"}
		}
		if _, dup := names[name]; dup {
			return ValidationError{fmt.Sprintf("strategies[%d].name", i), fmt.Sprintf("duplicate %q", name)}
		}
		names[name] = struct{}{}
	}

	for i, t := range fx.Trades {
		field := fmt.Sprintf("trades[%d]", i)
		if t.Date == "" {
			return ValidationError{field + ".date", "required"}
		}
		if t.Strategy != "" && t.StrategyID != "" {
			return ValidationError{field, "set strategy or strategy_id, not both"}
		}
		if t.Strategy != "" {
			if _, ok := names[strings.TrimSpace(t.Strategy)]; !ok {
				return ValidationError{field + ".strategy", fmt.Sprintf("unknown strategy %q", t.Strategy)}
			}
		}
	}

	return nil
}
