package dice

import "go.uber.org/zap"

// Roller wraps a Source with debug logging of every roll.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewRoller returns a Roller drawing from src.
//
// Precondition: src and logger must be non-nil.
func NewRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Source exposes the underlying randomness provider.
func (r *Roller) Source() Source {
	return r.src
}

// D20 rolls a natural d20 in [1, 20].
func (r *Roller) D20() int {
	v := r.src.Intn(20) + 1
	r.logger.Debug("dice roll", zap.String("expression", "d20"), zap.Int("total", v))
	return v
}

// Between returns a uniform integer in [lo, hi]. When hi < lo it returns lo.
func (r *Roller) Between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	v := lo + r.src.Intn(hi-lo+1)
	r.logger.Debug("dice roll",
		zap.Int("min", lo),
		zap.Int("max", hi),
		zap.Int("total", v),
	)
	return v
}

// Roll evaluates a parsed expression and logs it.
func (r *Roller) Roll(expr Expression) RollResult {
	result := Roll(expr, r.src)
	r.logger.Debug("dice roll",
		zap.String("expression", result.Expression),
		zap.Ints("dice", result.Dice),
		zap.Int("modifier", result.Modifier),
		zap.Int("total", result.Total()),
	)
	return result
}

// RollExpr parses and rolls expr.
//
// Postcondition: Returns a RollResult or a parse error.
func (r *Roller) RollExpr(expr string) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return r.Roll(e), nil
}
