package validator

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type ValidatorTestSuite struct {
	suite.Suite
}

func TestValidatorTestSuite(t *testing.T) {
	suite.Run(t, new(ValidatorTestSuite))
}

func (s *ValidatorTestSuite) TestIsValidAddress() {
	tests := []struct {
		desc       string
		address    string
		expIsValid bool
	}{
		{
			desc:       "lower case address",
			address:    "0x846d9804fa21e467119c1e3de1294f8b060a4881",
			expIsValid: true,
		},
		{
			desc:       "checksum address",
			address:    "0x846d9804Fa21E467119C1e3DE1294f8b060A4881",
			expIsValid: true,
		},
		{
			desc:       "too short",
			address:    "0x846d9804",
			expIsValid: false,
		},
		{
			desc:       "not hex",
			address:    "0xzz6d9804fa21e467119c1e3de1294f8b060a4881",
			expIsValid: false,
		},
		{
			desc:       "empty",
			address:    "",
			expIsValid: false,
		},
	}

	for _, t := range tests {
		s.Equal(t.expIsValid, IsValidAddress(t.address), t.desc)
	}
}
