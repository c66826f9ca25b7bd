// Copyright (c) 2026 Unimart. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/taibuivan/unimart/internal/platform/sec"
)

// IdentityResolver turns a validated token subject into a [sec.Principal].
//
// Every call reads the live record, so suspensions and role changes take effect
// on the very next request. Results are never cached.
type IdentityResolver struct {
	finder Finder
}

// NewIdentityResolver wires the resolver to an account lookup.
func NewIdentityResolver(finder Finder) *IdentityResolver {
	return &IdentityResolver{finder: finder}
}

/*
Resolve loads the account behind subject.

Returns:
  - *sec.Principal: a fresh principal carrying the current role and status
  - error: [sec.ErrIdentityNotFound] when no account matches, or the storage failure
*/
func (resolver *IdentityResolver) Resolve(ctx context.Context, subject string) (*sec.Principal, error) {
	normalized := sec.NormalizeSubject(subject)
	if normalized == "" {
		return nil, sec.ErrIdentityNotFound
	}

	account, err := resolver.finder.FindBySubject(ctx, normalized)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, sec.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("identity_resolver_lookup_failed: %w", err)
	}

	return account.Principal(), nil
}
