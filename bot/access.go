package bot

import (
	"fmt"
	"os"
)

type Binding struct {
	InstanceID string
	Secret     string
}

// Bindings resolves static per user and instance code credentials. Values
// are looked up on every call so configuration is read at invocation time.
type Bindings struct {
	lookup func(string) (string, bool)
}

func NewBindings(lookup func(string) (string, bool)) *Bindings {
	return &Bindings{lookup: lookup}
}

func EnvBindings() *Bindings {
	return NewBindings(os.LookupEnv)
}

func suffix(code string) string {
	if code == "" {
		return ""
	}
	return "_" + code
}

func InstanceKey(userID int64, code string) string {
	return fmt.Sprintf("USER_%d_INSTANCE%s", userID, suffix(code))
}

func SecretKey(userID int64, code string) string {
	return fmt.Sprintf("USER_%d_CODE%s", userID, suffix(code))
}

func (b *Bindings) get(key string) string {
	val, ok := b.lookup(key)
	if !ok {
		return ""
	}
	return val
}

// Resolve returns the binding for userID and code. The secret may be scoped
// to the code or shared by all of a user's instances.
func (b *Bindings) Resolve(userID int64, code string) (*Binding, bool) {
	instanceID := b.get(InstanceKey(userID, code))
	secret := b.get(SecretKey(userID, code))
	if secret == "" && code != "" {
		secret = b.get(SecretKey(userID, ""))
	}
	if instanceID == "" || secret == "" {
		return nil, false
	}
	return &Binding{InstanceID: instanceID, Secret: secret}, true
}
