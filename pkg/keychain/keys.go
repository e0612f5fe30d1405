package keychain

// Key is a well-known entry identifier. Ad-hoc string keys are accepted by
// every operation, but only registry keys are removed by ClearAll.
type Key string

const (
	KeyAuthToken       Key = "authToken"
	KeyRefreshToken    Key = "refreshToken"
	KeyUserCredentials Key = "userCredentials"
	KeyAppSettings     Key = "appSettings"
	KeyBiometricData   Key = "biometricData"
	KeyAppLanguage     Key = "appLanguage"
)

var registry = []Key{
	KeyAuthToken,
	KeyRefreshToken,
	KeyUserCredentials,
	KeyAppSettings,
	KeyBiometricData,
	KeyAppLanguage,
}

// AllKeys returns the registry in declaration order.
func AllKeys() []Key {
	out := make([]Key, len(registry))
	copy(out, registry)
	return out
}

// RegisteredNames returns the registry as plain strings.
func RegisteredNames() []string {
	out := make([]string, len(registry))
	for i, k := range registry {
		out[i] = string(k)
	}
	return out
}

// IsRegistered reports whether key belongs to the registry.
func IsRegistered(key string) bool {
	for _, k := range registry {
		if string(k) == key {
			return true
		}
	}
	return false
}

func (k Key) String() string { return string(k) }
