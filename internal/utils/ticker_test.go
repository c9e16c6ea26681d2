package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/imelnik/stock_quotes/internal/utils"
)

func TestValidateTicker(t *testing.T) {
	valid := []string{"A", "AAPL", "BRK.B", "AIR.PA", "^GSPC", "BTC-USD", "RDSA"}
	for _, ticker := range valid {
		assert.Truef(t, utils.ValidateTicker(ticker), "expected %s to be valid", ticker)
	}

	invalid := []string{"", "aapl", "NOT A TICKER", "WAYTOOLONGTICKER", "AAPL..B", ".AAPL"}
	for _, ticker := range invalid {
		assert.Falsef(t, utils.ValidateTicker(ticker), "expected %s to be invalid", ticker)
	}
}

func TestSplitTickers(t *testing.T) {
	assert.Equal(t, []string{"AAPL", "MSFT"}, utils.SplitTickers("aapl, msft"))
	assert.Equal(t, []string{"AAPL"}, utils.SplitTickers(",AAPL,,"))
	assert.Nil(t, utils.SplitTickers(""))
	assert.Nil(t, utils.SplitTickers(" , "))
}

func TestRemoveDuplicates(t *testing.T) {
	assert.Equal(t, []string{"AAPL", "MSFT"}, utils.RemoveDuplicates([]string{"AAPL", "MSFT", "AAPL"}))
	assert.Equal(t, []string{}, utils.RemoveDuplicates(nil))
}
