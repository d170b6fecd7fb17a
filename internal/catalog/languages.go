package catalog

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// DefaultLanguage is preselected when no target language is configured.
const DefaultLanguage = "Hindi"

// languages is kept sorted.
var languages = []string{
	"Abkhaz", "Acehnese", "Acholi", "Afar", "Afrikaans", "Albanian", "Alur", "Amharic",
	"Arabic", "Armenian", "Assamese", "Avar", "Awadhi", "Aymara", "Azerbaijani", "Balinese",
	"Baluchi", "Bambara", "Baoulé", "Bashkir", "Basque", "Batak Karo", "Batak Simalungun",
	"Batak Toba", "Belarusian", "Bemba", "Bengali", "Betawi", "Bhojpuri", "Bikol",
	"Bosnian", "Breton", "Bulgarian", "Buryat", "Cantonese", "Catalan", "Cebuano",
	"Chamorro", "Chechen", "Chichewa", "Chinese (Simplified)", "Chinese (Traditional)",
	"Chuukese", "Chuvash", "Corsican", "Crimean Tatar (Cyrillic)", "Crimean Tatar (Latin)",
	"Croatian", "Czech", "Danish", "Dari", "Dhivehi", "Dinka", "Dogri", "Dombe", "Dutch",
	"Dyula", "Dzongkha", "English", "Esperanto", "Estonian", "Ewe", "Faroese", "Fijian",
	"Filipino", "Finnish", "Fon", "French", "French (Canada)", "Frisian", "Friulian",
	"Fulani", "Ga", "Galician", "Georgian", "German", "Greek", "Guarani", "Gujrati",
	"Haitian Crele", "Hakha Chin", "Hausa", "Hawaiian", "Hebrew", "Hiligaynon", "Hindi",
	"Hmong", "Hungarian", "Hunsrik", "Iban", "Icelandic", "Igbo", "Ilocano", "Indonesian",
	"Inuktut (Latin)", "Inuktut (Syllabics)", "Irish", "Italian", "Jamaican Patois",
	"Japanese", "Javanese", "Jingpo", "Kalaallisut", "Kannada", "Kanuri", "Kapampangan",
	"Kazakh", "Khasi", "Khmer", "Kiga", "Kikongo", "Kinyarwanda", "Kituba", "Kokborok",
	"Komi", "Konkani", "Korean", "Krio", "Kurdish (Kurmanji)", "Kurdish (Sorani)", "Kyrgyz",
	"Lao", "Latgalian", "Latin", "Latvian", "Ligurian", "Limburgish", "Lingala",
	"Lithuanian", "Lombard", "Luganda", "Luo", "Luxembourgish", "Macedonian", "Madurese",
	"Maithili", "Makassar", "Malagasy", "Malay", "Malay (Jawi)", "Malayalam", "Maltese",
	"Mam", "Manx", "Marathi", "Maroi", "Marshallese", "Marwadi", "Mauitian Creole",
	"Meadow Mari", "Meiteilon (Manipuri)", "Minang", "Mizo", "Mongolian",
	"Myanmar (Burmese)", "NKo", "Nahuatl (Eastern Huasteca)", "Ndau", "Ndebele (South)",
	"Nepalbhasa (Newari)", "Nepali", "Norwegian", "Nuer", "Occitan", "Odia (Oriya)",
	"Oromo", "Ossetian", "Pangasinan", "Papiamento", "Pashto", "Persian", "Polish",
	"Portuguese (Brazil)", "Portuguese (Portugal)", "Punjabi (Gurmukhi)",
	"Punjabi (Shahmukhi)", "Quechua", "Qʼeqchiʼ", "Romani", "Romanian", "Rundi", "Russian",
	"Sami (North)", "Samoan", "Sango", "Sanskrit", "Santali (Latin)", "Santali (Ol Chiki)",
	"Scots Gaelic", "Sepedi", "Serbian", "Sesotho", "Seychellois Creole", "Shan", "Shona",
	"Sicilian", "Silesian", "Sindhi", "Sinhala", "Slovak", "Slovenian", "Somali", "Spanish",
	"Sundanese", "Susu", "Swahili", "Swati", "Swedish", "Tahitian", "Tamazight",
	"Tamazight (Tifinagh)", "Tamil", "Tatr", "Tazik", "Telugu", "Tetum", "Thai", "Tibetan",
	"Tigrinya", "Tiv", "Tok Pisin", "Tongan", "Tshiluba", "Tsonga", "Tswana", "Tulu",
	"Tumbuka", "Turkish", "Turkmen", "Tuvan", "Twi", "Udmurt", "Ukrainian", "Urdu",
	"Uyghur", "Uzbek", "Venda", "Venetian", "Vietnamese", "Waray", "Welsh", "Wolof",
	"Xhosa", "Yakut", "Yiddish", "Yoruba", "Yucatec Maya", "Zapotec", "Zulu",
}

// Languages returns a sorted copy of the known target language names.
func Languages() []string {
	out := make([]string, len(languages))
	copy(out, languages)
	return out
}

// IsKnown reports whether name is in the list. Matching is case-sensitive.
func IsKnown(name string) bool {
	i := sort.SearchStrings(languages, name)
	return i < len(languages) && languages[i] == name
}

// Resolution is the outcome of ResolveLanguage.
type Resolution struct {
	Name string
	// Inserted is set when Name was not in the list and has been added to
	// the returned list.
	Inserted bool
	// Languages is the sorted list that contains Name.
	Languages []string
}

// ResolveLanguage maps input to a target language name. Exact names win;
// a BCP-47 tag such as "uk" or "pt-BR" is mapped to its English name when
// that name is listed. Anything else is inserted into a sorted copy of the
// list rather than rejected.
func ResolveLanguage(input string) (Resolution, error) {
	name := strings.TrimSpace(input)
	if name == "" {
		return Resolution{}, fmt.Errorf("empty target language")
	}
	if IsKnown(name) {
		return Resolution{Name: name, Languages: Languages()}, nil
	}
	if tag, err := language.Parse(name); err == nil {
		if english := display.English.Languages().Name(tag); english != "" && IsKnown(english) {
			return Resolution{Name: english, Languages: Languages()}, nil
		}
	}

	list := append(Languages(), name)
	sort.Strings(list)
	return Resolution{Name: name, Inserted: true, Languages: list}, nil
}
