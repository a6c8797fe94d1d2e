//go:build tinygo || !cgo

package viewer

import (
	"errors"

	"github.com/molray/molray"
)

func Run(sc *molray.Scene, cfg Config) error {
	return errors.New("viewer: require cgo for window rendering")
}
