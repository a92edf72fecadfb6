package resources

type Repo interface {
	Upsert(resource *Resource) error
	Delete(resourceID string) error
	Get(resourceID string) (*Resource, error)
	List(offset, limit int) ([]*Resource, error)
}
