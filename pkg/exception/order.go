package exception

import "github.com/yanun0323/errors"

var (
	ErrOrderNilEvaluator       = errors.New("order: nil evaluator")
	ErrOrderEmptySettingsPath  = errors.New("order: empty fix settings path")
	ErrOrderReadSettings       = errors.New("order: read fix settings")
	ErrOrderInvalidVerboseFlag = errors.New("order: invalid Verbose setting")
)
