// Package tagging writes episode metadata and chapter lists into MP3
// files. It owns the tagging policy: which frames an episode carries,
// which of them replace previous values and which accumulate, and how a
// chapter list maps onto CHAP and CTOC frames. The byte-level work lives
// in internal/id3v2.
package tagging
