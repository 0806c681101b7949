package vin

const (
	vinLength     = 17
	checkDigitPos = 8
)

// ISO 3779 transliteration values for the VIN letter alphabet.
// Digits map to themselves; I, O and Q are not part of the alphabet.
var transliteration = map[byte]int{
	'A': 1, 'B': 2, 'C': 3, 'D': 4, 'E': 5, 'F': 6, 'G': 7, 'H': 8,
	'J': 1, 'K': 2, 'L': 3, 'M': 4, 'N': 5, 'P': 7, 'R': 9,
	'S': 2, 'T': 3, 'U': 4, 'V': 5, 'W': 6, 'X': 7, 'Y': 8, 'Z': 9,
}

// ISO 3779 position weights. The check-digit slot carries weight 0.
var weights = [vinLength]int{8, 7, 6, 5, 4, 3, 2, 10, 0, 9, 8, 7, 6, 5, 4, 3, 2}

// IsValidChecksum reports whether the 9th character of vin matches the
// ISO 3779 weighted-sum-mod-11 check digit. Anything that is not exactly
// 17 characters of the VIN alphabet is invalid without further computation.
func IsValidChecksum(vin string) bool {
	if !isVINShaped(vin) {
		return false
	}
	sum := 0
	for i := 0; i < vinLength; i++ {
		sum += transliterate(vin[i]) * weights[i]
	}
	return vin[checkDigitPos] == checkChar(sum%11)
}

func transliterate(c byte) int {
	if c >= '0' && c <= '9' {
		return int(c - '0')
	}
	return transliteration[c]
}

// checkChar maps a mod-11 remainder to its check character: 'X' for ten,
// the decimal digit otherwise.
func checkChar(remainder int) byte {
	if remainder == 10 {
		return 'X'
	}
	return byte('0' + remainder)
}
