package geostore

// KeyValuePair is a tuple, used in the store batch APIs (Extend, Update) to
// pair a key with the records destined for it.
type KeyValuePair[TK any, TV any] struct {
	Key   TK
	Value TV
}
