// Package sel перечисляет css-селекторы элементов, на которые
// опираются автотесты. Идентификаторы должны совпадать с разметкой
// в views/.
package sel

const (
	Logo        = ".brand-logo"
	SignOutLink = "#signout-link"

	SignInFormUsername = "#username-field"
	SignInFormPass     = "#password-field"
	SignInFormSubmit   = "#signin-form-submit"

	NewPlayerFormName   = "#new-player-form-name"
	NewPlayerFormSubmit = "#new-player-form-submit"

	NewMatchFormWinner = "#new-match-form-winner"
	NewMatchFormLoser  = "#new-match-form-loser"
	NewMatchFormDraw   = "#new-match-form-draw"
	NewMatchFormSubmit = "#new-match-form-submit"

	PlayerListRow     = "#player-list-row"
	PlayerListRowName = "#player-list-row-name"
)
