package models

// TeamMember представляет члена команды в админке. В БД не хранится:
// живет в рамках сессии администратора, ключ выдается по таймстемпу.
type TeamMember struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Role  string   `json:"role"`
	Image ImageRef `json:"image"`
}
