package apps

type Repo interface {
	Upsert(app *App) error
	Delete(appID string) error
	Get(appID string) (*App, error)
	List(offset, limit int) ([]*App, error)
}
