package normalize

import "strings"

// iso639_2to1 maps ISO 639-2 (3-letter) codes to ISO 639-1 (2-letter) codes
// for the languages this catalog actually carries. Includes the alternative
// 639-2/B bibliographic variants MARC records use.
//
//nolint:gochecknoglobals // Static lookup table for language normalization
var iso639_2to1 = map[string]string{
	"eng": "en", "spa": "es", "fra": "fr", "deu": "de", "ita": "it",
	"por": "pt", "nld": "nl", "rus": "ru", "jpn": "ja", "zho": "zh",
	"kor": "ko", "ara": "ar", "hin": "hi", "pol": "pl", "swe": "sv",
	"nor": "no", "dan": "da", "fin": "fi", "tur": "tr", "ell": "el",
	"heb": "he", "ces": "cs", "hun": "hu", "ron": "ro", "ukr": "uk",
	"cat": "ca", "hrv": "hr", "vie": "vi", "tha": "th", "lat": "la",
	// ISO 639-2/B bibliographic variants
	"ger": "de", "fre": "fr", "dut": "nl", "chi": "zh", "cze": "cs",
	"gre": "el", "rum": "ro", "wel": "cy",
}

// languageNameToCode maps language names, as they appear in vendor metadata
// feeds, to ISO 639-1 codes.
//
//nolint:gochecknoglobals // Static lookup table for language normalization
var languageNameToCode = map[string]string{
	"english": "en", "spanish": "es", "french": "fr", "german": "de",
	"italian": "it", "portuguese": "pt", "dutch": "nl", "russian": "ru",
	"japanese": "ja", "chinese": "zh", "korean": "ko", "arabic": "ar",
	"hindi": "hi", "polish": "pl", "swedish": "sv", "norwegian": "no",
	"danish": "da", "finnish": "fi", "turkish": "tr", "greek": "el",
	"hebrew": "he", "czech": "cs", "hungarian": "hu", "romanian": "ro",
	"ukrainian": "uk", "catalan": "ca", "croatian": "hr", "vietnamese": "vi",
	"thai": "th", "latin": "la", "welsh": "cy",
}

// twoLetterCodes validates bare ISO 639-1 input.
//
//nolint:gochecknoglobals // Static lookup table for language normalization
var twoLetterCodes = map[string]bool{
	"en": true, "es": true, "fr": true, "de": true, "it": true, "pt": true,
	"nl": true, "ru": true, "ja": true, "zh": true, "ko": true, "ar": true,
	"hi": true, "pl": true, "sv": true, "no": true, "da": true, "fi": true,
	"tr": true, "el": true, "he": true, "cs": true, "hu": true, "ro": true,
	"uk": true, "ca": true, "hr": true, "vi": true, "th": true, "la": true,
	"cy": true,
}

// LanguageCode converts various language representations to ISO 639-1 codes:
// 639-1 passthrough ("en"), 639-2 codes ("eng", "ger"), locale codes
// ("en-US", "en_GB"), and language names ("English"). Returns "" for
// unrecognized values; work-identity grouping treats "" as its own bucket.
func LanguageCode(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return ""
	}

	// Locale codes: keep the language part.
	if i := strings.IndexAny(value, "-_"); i > 0 {
		value = value[:i]
	}

	if len(value) == 2 && twoLetterCodes[value] {
		return value
	}
	if code, ok := iso639_2to1[value]; ok {
		return code
	}
	if code, ok := languageNameToCode[value]; ok {
		return code
	}
	return ""
}
