package domain

// FavoritesStorageKey is the key the favorites snapshot is persisted under.
const FavoritesStorageKey = "favorites-storage"

// FavoritesState is the persisted shape of the favorites set. IDs mirrors
// Products and exists for cheap membership checks by readers of the blob.
type FavoritesState struct {
	Products []ProductSnapshot `json:"products"`
	IDs      []string          `json:"ids"`
}
