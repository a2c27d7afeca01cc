package dataset

import (
	stderrors "errors"

	"github.com/matzehuels/chartcore/pkg/errors"
)

func asError(err error, target **errors.Error) bool {
	return stderrors.As(err, target)
}
