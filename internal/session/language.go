package session

import "github.com/DEVTAYPE/nasa-challengue-trivia/internal/farmquest"

// LanguageSource is a global display-language setting that can be watched.
type LanguageSource interface {
	Get() farmquest.Language
	Subscribe(fn func(farmquest.Language)) (unsubscribe func())
}

// SyncLanguage pushes src's current value into store and keeps pushing every
// later change. It never writes back to src. Call the returned function to
// stop syncing.
func SyncLanguage(src LanguageSource, store *Store) (stop func()) {
	store.SetLanguage(src.Get())
	return src.Subscribe(store.SetLanguage)
}
