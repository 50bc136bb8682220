package multi

// TableName is declared in another file.
func (User) TableName() string { return "accounts" }
