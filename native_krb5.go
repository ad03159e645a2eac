//go:build cgo && !windows && !darwin
// +build cgo,!windows,!darwin

// cgo bindings to MIT libkrb5. Each helper opens its own krb5_context, walks
// the credential cache collection and closes everything before returning, so
// no native state outlives a call.

package cccolutils

/*
#cgo LDFLAGS: -lkrb5

#include <stdlib.h>
#include <string.h>
#include <stdint.h>
#include <krb5.h>

static int realm_matches(krb5_principal principal, const char *realm) {
    size_t n = strlen(realm);
    return principal->realm.length == n &&
           (n == 0 || memcmp(principal->realm.data, realm, n) == 0);
}

// Returns 1 if cache holds a credential that is not a config entry.
// With unexpired set, the credential must also end after now.
static int cache_has_creds(krb5_context ctx, krb5_ccache cache, int unexpired) {
    krb5_cc_cursor cur = NULL;
    krb5_creds creds;
    krb5_timestamp now = 0;
    int found = 0;

    if (unexpired && krb5_timeofday(ctx, &now)) {
        return 0;
    }
    if (krb5_cc_start_seq_get(ctx, cache, &cur)) {
        return 0;
    }
    while (!found && krb5_cc_next_cred(ctx, cache, &cur, &creds) == 0) {
        if (!krb5_is_config_principal(ctx, creds.server)) {
            if (!unexpired || (uint32_t)creds.times.endtime > (uint32_t)now) {
                found = 1;
            }
        }
        krb5_free_cred_contents(ctx, &creds);
    }
    krb5_cc_end_seq_get(ctx, cache, &cur);
    return found;
}

// Returns the unparsed principal name (without realm) of the first cache in
// the collection whose principal belongs to realm, or NULL. The result must
// be released with free_char_array_c.
static char *get_username_for_realm_c(const char *realm) {
    krb5_context ctx = NULL;
    krb5_cccol_cursor cursor = NULL;
    krb5_ccache cache = NULL;
    char *name = NULL;

    if (krb5_init_context(&ctx)) {
        return NULL;
    }
    if (krb5_cccol_cursor_new(ctx, &cursor)) {
        krb5_free_context(ctx);
        return NULL;
    }

    while (name == NULL && krb5_cccol_cursor_next(ctx, cursor, &cache) == 0) {
        if (cache == NULL) {
            break;
        }

        krb5_principal principal = NULL;
        if (krb5_cc_get_principal(ctx, cache, &principal) == 0) {
            if (realm_matches(principal, realm) &&
                krb5_unparse_name_flags(ctx, principal, KRB5_PRINCIPAL_UNPARSE_NO_REALM, &name)) {
                name = NULL;
            }
            krb5_free_principal(ctx, principal);
        }
        krb5_cc_close(ctx, cache);
        cache = NULL;
    }

    krb5_cccol_cursor_free(ctx, &cursor);
    krb5_free_context(ctx);
    return name;
}

static void free_char_array_c(char *name) {
    krb5_free_unparsed_name(NULL, name);
}

static int has_credentials_c(void) {
    krb5_context ctx = NULL;
    krb5_cccol_cursor cursor = NULL;
    krb5_ccache cache = NULL;
    int found = 0;

    if (krb5_init_context(&ctx)) {
        return 0;
    }
    if (krb5_cccol_cursor_new(ctx, &cursor)) {
        krb5_free_context(ctx);
        return 0;
    }

    while (!found && krb5_cccol_cursor_next(ctx, cursor, &cache) == 0) {
        if (cache == NULL) {
            break;
        }
        found = cache_has_creds(ctx, cache, 0);
        krb5_cc_close(ctx, cache);
        cache = NULL;
    }

    krb5_cccol_cursor_free(ctx, &cursor);
    krb5_free_context(ctx);
    return found;
}

static int has_credentials_for_realm_c(const char *realm) {
    krb5_context ctx = NULL;
    krb5_cccol_cursor cursor = NULL;
    krb5_ccache cache = NULL;
    int found = 0;

    if (krb5_init_context(&ctx)) {
        return 0;
    }
    if (krb5_cccol_cursor_new(ctx, &cursor)) {
        krb5_free_context(ctx);
        return 0;
    }

    while (!found && krb5_cccol_cursor_next(ctx, cursor, &cache) == 0) {
        if (cache == NULL) {
            break;
        }

        krb5_principal principal = NULL;
        if (krb5_cc_get_principal(ctx, cache, &principal) == 0) {
            if (realm_matches(principal, realm)) {
                found = cache_has_creds(ctx, cache, 1);
            }
            krb5_free_principal(ctx, principal);
        }
        krb5_cc_close(ctx, cache);
        cache = NULL;
    }

    krb5_cccol_cursor_free(ctx, &cursor);
    krb5_free_context(ctx);
    return found;
}
*/
import "C"

import (
	"unsafe"
)

// krb5Native calls into libkrb5. Thread safety is whatever libkrb5 offers
// for independent contexts reading the cache collection.
type krb5Native struct{}

func defaultNative() Native {
	return krb5Native{}
}

func (krb5Native) UsernameForRealm(realm CString) *ForeignString {
	p := realm.Pointer()
	if p == nil {
		return nil
	}
	name := C.get_username_for_realm_c((*C.char)(p))
	realm.KeepAlive()
	return NewForeignString(unsafe.Pointer(name))
}

func (krb5Native) Free(h *ForeignString) {
	if p := h.Pointer(); p != nil {
		C.free_char_array_c((*C.char)(p))
	}
}

func (krb5Native) HasCredentials() int {
	return int(C.has_credentials_c())
}

func (krb5Native) HasCredentialsForRealm(realm CString) int {
	p := realm.Pointer()
	if p == nil {
		return 0
	}
	r := C.has_credentials_for_realm_c((*C.char)(p))
	realm.KeepAlive()
	return int(r)
}
