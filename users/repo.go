package users

type Repo interface {
	Upsert(user *User) error
	Delete(username string) error
	GetByUsername(username string) (*User, error)
	GetByID(id string) (*User, error)
	List(offset, limit int) ([]*User, error)
}
