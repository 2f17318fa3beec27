// Package session provides a minimal server-side session abstraction: a
// token-keyed bag of request-scoped data with an expiry.
//
// The package deliberately stops at storage. Cookie/header transports and
// HTTP middleware belong to the web layer; everything here works equally
// well for any caller that can produce a session token.
//
//	store := session.NewMemoryStore(time.Minute)
//	defer store.Close()
//
//	sess := session.New("token-abc", nil, time.Hour)
//	sess.Set("theme", "dark")
//	_ = store.Save(ctx, sess)
package session
