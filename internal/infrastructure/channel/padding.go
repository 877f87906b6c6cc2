package channel

import "strings"

// preambleParam is the query parameter a client sets to request the
// compatibility preamble (EventSource polyfills use it).
const preambleParam = "evs_preamble"

// preamble is a ~2KB comment block sent before the first real event to
// clients that ask for it. Some buffering intermediaries and browser
// polyfills withhold the stream until a minimum byte threshold has been
// received; the padding defeats that. Computed once, immutable.
var preamble = []byte(":" + strings.Repeat(" ", 2056) + "\n\n")
