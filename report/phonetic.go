// report/phonetic.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package report

import "strings"

// PhoneticAlphabet is the fixed NATO-style alphabet cycling per report,
// Alpha through Zulu.
var PhoneticAlphabet = [26]string{
	"Alpha", "Bravo", "Charlie", "Delta", "Echo", "Foxtrot", "Golf", "Hotel", "India", "Juliett",
	"Kilo", "Lima", "Mike", "November", "Oscar", "Papa", "Quebec", "Romeo", "Sierra", "Tango",
	"Uniform", "Victor", "Whiskey", "X-ray", "Yankee", "Zulu",
}

// InformationLetter returns the information letter for reportIndex,
// offset by an airfield's configured info-letter start.
func InformationLetter(reportIndex, infoLetterOffset int) string {
	i := (reportIndex + infoLetterOffset) % len(PhoneticAlphabet)
	if i < 0 {
		i += len(PhoneticAlphabet)
	}
	return PhoneticAlphabet[i]
}

// phoneticDigits maps each decimal digit to its phonetic word; only 0
// and 9 get full words, the rest are spoken as their literal digit.
var phoneticDigits = [10]string{
	"ZERO", "1", "2", "3", "4", "5", "6", "7", "8", "NINER",
}

// Pronounce renders s for speech: each digit becomes its phonetic word
// and '.' becomes "DECIMAL", space-joined. With pronounce=false, s is
// returned unchanged.
func Pronounce(s string, pronounce bool) string {
	if !pronounce {
		return s
	}

	var words []string
	for _, r := range s {
		switch {
		case r == '.':
			words = append(words, "DECIMAL")
		case r >= '0' && r <= '9':
			words = append(words, phoneticDigits[r-'0'])
		default:
			words = append(words, string(r))
		}
	}
	return strings.Join(words, " ")
}
