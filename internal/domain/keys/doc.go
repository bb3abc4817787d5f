// Package keys models stored key pairs: their metadata, PEM payloads and the
// services operating on them.
package keys
