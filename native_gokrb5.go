package cccolutils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
	"unsafe"

	"github.com/jcmturner/gokrb5/v8/credentials"
	"github.com/sirupsen/logrus"
)

// GoNative is a Native backend that reads FILE: and DIR: credential caches
// with gokrb5. It is the default when cgo is unavailable.
//
// Strings it returns live in Go memory but are still tracked as foreign
// allocations: each one stays registered until Free is called for it, so a
// missed or repeated release is visible through Outstanding and the log.
type GoNative struct {
	ccacheName string
	now        func() time.Time

	mu   sync.Mutex
	live map[unsafe.Pointer][]byte
}

// NewGoNative creates a gokrb5 backend that follows KRB5CCNAME.
func NewGoNative() *GoNative {
	return &GoNative{
		now:  time.Now,
		live: make(map[unsafe.Pointer][]byte),
	}
}

// SetCCacheName overrides KRB5CCNAME, e.g. "FILE:/tmp/krb5cc_1000" or
// "DIR:/run/user/1000/krb5cc".
func (g *GoNative) SetCCacheName(name string) {
	g.ccacheName = name
}

// Outstanding returns the number of strings handed out and not yet freed.
func (g *GoNative) Outstanding() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.live)
}

func (g *GoNative) UsernameForRealm(realm CString) *ForeignString {
	want := realm.String()
	for _, cc := range g.collection() {
		if cc.DefaultPrincipal.Realm != want {
			continue
		}
		if len(cc.DefaultPrincipal.PrincipalName.NameString) == 0 {
			continue
		}
		return g.alloc(cc.DefaultPrincipal.PrincipalName.PrincipalNameString())
	}
	return nil
}

func (g *GoNative) Free(h *ForeignString) {
	p := h.Pointer()
	if p == nil {
		return
	}
	g.mu.Lock()
	_, ok := g.live[p]
	delete(g.live, p)
	g.mu.Unlock()

	if !ok {
		log.WithField("op", "free").Warn("Release of a string this backend does not own")
	}
}

func (g *GoNative) HasCredentials() int {
	for _, cc := range g.collection() {
		if len(cc.GetEntries()) > 0 {
			return 1
		}
	}
	return 0
}

func (g *GoNative) HasCredentialsForRealm(realm CString) int {
	want := realm.String()
	now := g.now()
	for _, cc := range g.collection() {
		if cc.DefaultPrincipal.Realm != want {
			continue
		}
		for _, cred := range cc.GetEntries() {
			if cred.EndTime.After(now) {
				return 1
			}
		}
	}
	return 0
}

func (g *GoNative) alloc(s string) *ForeignString {
	b := make([]byte, len(s)+1)
	copy(b, s)
	p := unsafe.Pointer(&b[0])

	g.mu.Lock()
	g.live[p] = b
	g.mu.Unlock()
	return NewForeignString(p)
}

// collection loads every readable cache in the configured collection.
// Unreadable or unsupported caches are skipped.
func (g *GoNative) collection() []*credentials.CCache {
	name := g.ccacheName
	if name == "" {
		name = os.Getenv("KRB5CCNAME")
	}
	if name == "" {
		name = fmt.Sprintf("FILE:/tmp/krb5cc_%d", os.Getuid())
	}

	paths, err := resolveCCacheName(name)
	if err != nil {
		log.WithFields(logrus.Fields{
			"op":     "collection",
			"ccache": name,
		}).Debugf("Skipping credential cache: %v", err)
		return nil
	}

	var caches []*credentials.CCache
	for _, path := range paths {
		cc, err := loadCCache(path)
		if err != nil {
			log.WithFields(logrus.Fields{
				"op":     "collection",
				"ccache": path,
			}).Debugf("Skipping credential cache: %v", err)
			continue
		}
		caches = append(caches, cc)
	}
	return caches
}

// loadCCache wraps credentials.LoadCCache, which indexes past the end of
// truncated files instead of returning an error.
func loadCCache(path string) (cc *credentials.CCache, err error) {
	defer func() {
		if r := recover(); r != nil {
			cc = nil
			err = fmt.Errorf("malformed credential cache %s: %v", path, r)
		}
	}()
	cc, err = credentials.LoadCCache(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load ccache from %s: %w", path, err)
	}
	return cc, nil
}

// resolveCCacheName maps a ccache name to the files of its collection.
// The primary cache of a DIR: collection comes first.
func resolveCCacheName(name string) ([]string, error) {
	typ, residual := "FILE", name
	if i := strings.IndexByte(name, ':'); i > 0 && !filepath.IsAbs(name) && !isDriveLetter(name, i) {
		typ, residual = strings.ToUpper(name[:i]), name[i+1:]
	}

	switch typ {
	case "FILE":
		return []string{residual}, nil
	case "DIR":
		// "DIR::path" names a single cache inside a collection.
		if strings.HasPrefix(residual, ":") {
			return []string{residual[1:]}, nil
		}
		return dirCollection(residual)
	default:
		return nil, fmt.Errorf("unsupported ccache type %s", typ)
	}
}

func isDriveLetter(name string, colon int) bool {
	return colon == 1 && len(name) > 2 && (name[2] == '\\' || name[2] == '/')
}

func dirCollection(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "tkt*"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)

	primary := filepath.Join(dir, "tkt")
	if b, err := os.ReadFile(filepath.Join(dir, "primary")); err == nil {
		if p := strings.TrimSpace(string(b)); p != "" {
			primary = filepath.Join(dir, p)
		}
	}

	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		if m == primary {
			paths = append([]string{m}, paths...)
			continue
		}
		paths = append(paths, m)
	}
	return paths, nil
}
