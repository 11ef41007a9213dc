// Package mocks provides gomock doubles for the collaborators the session and
// event services talk to over the network.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	hub := mocks.NewMockHub(ctrl)
//	hub.EXPECT().Refresh(gomock.Any(), "old").Return("new", nil)
package mocks

// Generate mock for Hub interface from internal/live/session package.
// This creates MockHub with methods: Refresh, LoginURL, LogoutURL
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=hub_mock.go github.com/aussiebroadwan/bndylive/internal/live/session Hub

// Generate mock for Catalog interface from internal/live/service package.
// This creates MockCatalog with methods: CreateVenue, CreateEvent, CheckConflicts
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=catalog_mock.go github.com/aussiebroadwan/bndylive/internal/live/service Catalog
