package repository

// DefaultKeyPrefix namespaces every persisted key.
const DefaultKeyPrefix = "spark-ai-academy-"

// Record is an encoded value ready to be written under Key
type Record struct {
	Key   string
	Value string
}

// Keys builds the persisted key names under a prefix.
type Keys struct {
	prefix string
}

func NewKeys(prefix string) Keys {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return Keys{prefix: prefix}
}

func (k Keys) Prefix() string { return k.prefix }

func (k Keys) Accounts() string { return k.prefix + "accounts" }

func (k Keys) Profile(email string) string { return k.prefix + "profile-" + email }

func (k Keys) LoggedIn() string { return k.prefix + "loggedIn" }

func (k Keys) LastLoggedInEmail() string { return k.prefix + "last-loggedIn-email" }

func (k Keys) GuideSeen(email string) string { return k.prefix + "guide-seen-" + email }
