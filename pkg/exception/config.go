package exception

import "github.com/yanun0323/errors"

var (
	ErrConfigUnsupportedFormat = errors.New("config: unsupported file format")
	ErrConfigInvalidLimit      = errors.New("config: invalid exposure limit")
	ErrConfigInvalidValue      = errors.New("config: invalid value")
)
