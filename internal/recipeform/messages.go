package recipeform

// User-facing messages, in the site's language.
const (
	MsgCreated       = "Recette créée avec succès !"
	MsgCreateFailed  = "Erreur lors de la création"
	MsgUpdated       = "Recette modifiée avec succès !"
	MsgUpdateFailed  = "Erreur lors de la modification"
	msgMissingID     = "Impossible de récupérer l'ID de la recette"
	msgQuantityEmpty = `Veuillez remplir la quantité pour l'ingrédient "%s"`
)
