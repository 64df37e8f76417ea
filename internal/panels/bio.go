package panels

// BioLimit is the number of characters shown before a bio is collapsed.
const BioLimit = 300

// Bio returns the text to display and whether a show more/less control is
// needed.
func Bio(text string, expanded bool) (string, bool) {
	r := []rune(text)
	if len(r) <= BioLimit {
		return text, false
	}
	if expanded {
		return text, true
	}
	return string(r[:BioLimit]) + "...", true
}
