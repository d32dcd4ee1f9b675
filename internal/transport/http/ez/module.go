package ez

// Groups are the three access levels a feature can mount routes on.
type Groups struct {
	Public EZ // no credentials
	User   EZ // any authenticated user
	Admin  EZ // authenticated with role admin
}

// Module is implemented by each feature's handler.
type Module interface {
	Mount(Groups)
}
