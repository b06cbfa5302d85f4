package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyWriteError(t *testing.T) {
	req := require.New(t)

	req.Nil(ClassifyWriteError(nil))

	req.Equal(ErrTxRejected, ClassifyWriteError(errors.New("user rejected the request")))
	req.Equal(ErrBelowMinimumStake, ClassifyWriteError(errors.New("execution reverted: Must stake at least minStake")))
	req.Equal(ErrInsufficientStakedAmount, ClassifyWriteError(errors.New("execution reverted: Insufficient staked balance")))
	req.Equal(ErrNothingToClaim, ClassifyWriteError(errors.New("execution reverted: No rewards to claim")))
	req.Equal(ErrInsufficientFunds, ClassifyWriteError(errors.New("insufficient funds for gas * price + value")))

	// specific revert reasons win over the generic insufficient match
	req.Equal(ErrInsufficientStakedAmount, ClassifyWriteError(errors.New("insufficient: Insufficient staked balance")))

	unknown := errors.New("nonce too low")
	req.Equal(unknown, ClassifyWriteError(unknown))
}
