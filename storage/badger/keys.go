package badger

// Key prefix for stored LAQ items. One key per embedded Q&A pair.
const itemPrefix = "laqitem:"

// makeItemKey generates the key for a stored item by id.
func makeItemKey(id string) []byte {
	return []byte(itemPrefix + id)
}
