package utils

import (
	"regexp"
	"strings"
)

// Accepts plain US tickers plus dotted or suffixed forms such as BRK.B,
// AIR.PA and index symbols like ^GSPC.
var tickerPattern = regexp.MustCompile(`^\^?[A-Z0-9]{1,10}([.\-][A-Z0-9]{1,4})?$`)

func ValidateTicker(ticker string) bool {
	return tickerPattern.MatchString(ticker)
}

func RemoveDuplicates(input []string) []string {
	inputMap := make(map[string]bool)
	output := []string{}
	for _, value := range input {
		if _, ok := inputMap[value]; !ok {
			inputMap[value] = true
			output = append(output, value)
		}
	}
	return output
}

// SplitTickers turns a comma-separated query value into upper-cased
// symbols, dropping empty segments.
func SplitTickers(input string) (output []string) {
	noSpaceStr := strings.ReplaceAll(input, " ", "")
	inputList := strings.Split(noSpaceStr, ",")
	for _, val := range inputList {
		if val != "" {
			output = append(output, strings.ToUpper(val))
		}
	}
	return output
}
