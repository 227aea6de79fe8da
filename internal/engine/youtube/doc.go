// Package youtube scrapes YouTube search results into a small set of typed
// items and pages through them with continuation tokens.
//
// A Client fetches the results page, pulls the embedded ytInitialData
// payload out of it, classifies every raw renderer into an Item and then
// follows continuation tokens until the item or page budget is spent.
// Classify is pure and strict; the Client skips and dumps items it rejects.
package youtube
