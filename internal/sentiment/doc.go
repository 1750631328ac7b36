// Package sentiment turns the emotion score mapping returned by the analysis
// service into a fixed-order vector suitable for charting. The canonical
// label order also fixes the colour each emotion is drawn with.
package sentiment
