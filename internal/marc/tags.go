package marc

// MARC 21 bibliographic tags consumed by the parser.
const (
	tagControlNumber = "001"
	tagFixedData     = "008"

	tagLanguageCode = "041"

	tagMainPersonal  = "100"
	tagMainCorporate = "110"

	tagTitle        = "245"
	tagVariantTitle = "246"

	tagImprint    = "260"
	tagImprint264 = "264"

	tagSubjectPersonal   = "600"
	tagSubjectCorporate  = "610"
	tagSubjectTopical    = "650"
	tagSubjectGeographic = "651"

	tagAddedPersonal  = "700"
	tagAddedCorporate = "710"
)

// Fixed-field language positions in the 008 control field.
const (
	fixedLangStart = 35
	fixedLangEnd   = 38
)

func isTitleTag(tag string) bool {
	return tag == tagTitle || tag == tagVariantTitle
}

func isImprintTag(tag string) bool {
	return tag == tagImprint || tag == tagImprint264
}

func isSubjectTag(tag string) bool {
	switch tag {
	case tagSubjectPersonal, tagSubjectCorporate, tagSubjectTopical, tagSubjectGeographic:
		return true
	}
	return false
}

func isAgentTag(tag string) bool {
	switch tag {
	case tagMainPersonal, tagMainCorporate, tagAddedPersonal, tagAddedCorporate:
		return true
	}
	return false
}

func isMainEntryTag(tag string) bool {
	return tag == tagMainPersonal || tag == tagMainCorporate
}
