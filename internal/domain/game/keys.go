package game

// DefaultKeyPrefix is the key family prefix used by the storefront.
const DefaultKeyPrefix = "game"

// KeySpace names the three key families kept in the record store:
// {prefix}:{id}, {prefix}:{id}:html and {prefix}:list.
// Ids are digits only, so the index key never collides with a record key.
type KeySpace struct {
	prefix string
}

// NewKeySpace returns a key space for prefix, or DefaultKeyPrefix when empty.
func NewKeySpace(prefix string) KeySpace {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return KeySpace{prefix: prefix}
}

// Prefix returns the key family prefix.
func (k KeySpace) Prefix() string {
	if k.prefix == "" {
		return DefaultKeyPrefix
	}
	return k.prefix
}

// Record is the key of the JSON record for id.
func (k KeySpace) Record(id GameID) string {
	return k.Prefix() + ":" + string(id)
}

// Page is the key of the pre-rendered page for id.
func (k KeySpace) Page(id GameID) string {
	return k.Prefix() + ":" + string(id) + ":html"
}

// Index is the key of the game index.
func (k KeySpace) Index() string {
	return k.Prefix() + ":list"
}
