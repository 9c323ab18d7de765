// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package layout

// DefaultFooterFigures is the number of standalone figures that make up the
// newsletter sign-off footer.
const DefaultFooterFigures = 2

// FooterStart scans elems from the end, counting standalone figures.
// Figures inside clusters are not counted. When the count reaches figures,
// it returns the index of the element at which the count was reached and
// true. When the sequence holds fewer standalone figures, or figures is
// below one, it returns len(elems) and false.
func FooterStart(elems []Element, figures int) (int, bool) {
	if figures < 1 {
		return len(elems), false
	}

	count, visited := 0, 0
	for i := len(elems) - 1; i >= 0; i-- {
		if p, ok := elems[i].(*Primitive); ok && Classify(p) == KindFigure {
			count++
		}
		visited++
		if count == figures {
			return len(elems) - visited, true
		}
	}
	return len(elems), false
}

// TrimFooter returns the body of the document: elems truncated before the
// footer located by FooterStart. Without a footer the whole sequence is kept.
func TrimFooter(elems []Element, figures int) []Element {
	start, _ := FooterStart(elems, figures)
	return elems[:start]
}
