package gameserver

// Announcement returns the line shown to players outdoors when the game day
// enters period. Indoor players see nothing.
//
// Postcondition: Returns a non-empty string for outdoor rooms, empty for indoor.
func Announcement(period TimePeriod, outdoor bool) string {
	if !outdoor {
		return ""
	}
	switch period {
	case PeriodMidnight:
		return "It is midnight. Only faint starlight reaches the wastes."
	case PeriodLateNight:
		return "The night grows deeper and colder."
	case PeriodDawn:
		return "A grey light creeps over the horizon as dawn breaks."
	case PeriodMorning:
		return "The sun climbs over the ruins."
	case PeriodAfternoon:
		return "The sun hangs high overhead, bright and relentless."
	case PeriodDusk:
		return "The sky burns orange as the sun sinks toward the horizon."
	case PeriodEvening:
		return "Twilight settles and the first stars appear."
	default: // PeriodNight
		return "Night falls over the land."
	}
}
