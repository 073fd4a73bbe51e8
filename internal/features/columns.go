package features

// Feature column names. The names follow the course-log study that this
// pipeline was built for and are part of the output contract: downstream
// consumers select columns by these names.
const (
	ColNbActions     = "nb_actions"
	ColMeanPerDay    = "moyenne_nb_actions"
	ColMaxPerDay     = "max_nb_actions"
	ColStdPerDay     = "std_actions_par_jour"
	ColActiveDays    = "nb_jours_avec_action"
	ColDaySpan       = "tempsdiff_jours"
	ColConstancy     = "constance_activite"
	ColWeekendShare  = "pct_weekend"
	ColMeanWindowMin = "activite_moyenne_par_jour_min"
	ColNightShare    = "pourcentage_activite_nuit"
	ColMorningShare  = "pourcentage_activite_matin"
	ColAfternoon     = "pourcentage_activite_aprem"
	ColEveningShare  = "pourcentage_activite_soir"
	ColNbComponents  = "nb_composant"
	ColNbContexts    = "nb_contexte"
	ColTopComponent  = "top_composant"
	ColTopContext    = "top_contexte"
	ColTopEventType  = "top_evenement"

	// Cross-tabulation column prefixes, one column per observed value.
	PrefixComponent = "composant"
	PrefixContext   = "contexte"
	PrefixEventType = "evenement"
)
