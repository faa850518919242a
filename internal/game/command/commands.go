// Package command provides the command registry, the line parser, and the
// dispatcher that turns player input into engine actions.
package command

// Categories for organizing commands.
const (
	CategoryMovement      = "movement"
	CategoryWorld         = "world"
	CategoryCombat        = "combat"
	CategoryItems         = "items"
	CategoryCrafting      = "crafting"
	CategoryCommunication = "communication"
	CategorySystem        = "system"
)

// Handler identifiers mapping commands to dispatcher handlers.
const (
	HandlerMove      = "move"
	HandlerLook      = "look"
	HandlerMap       = "map"
	HandlerPosture   = "posture"
	HandlerStop      = "stop"
	HandlerKill      = "kill"
	HandlerFlee      = "flee"
	HandlerScout     = "scout"
	HandlerOpen      = "open"
	HandlerClose     = "close"
	HandlerAim       = "aim"
	HandlerFire      = "fire"
	HandlerLoad      = "load"
	HandlerUnload    = "unload"
	HandlerReload    = "reload"
	HandlerTake      = "take"
	HandlerDrop      = "drop"
	HandlerWield     = "wield"
	HandlerWear      = "wear"
	HandlerRemove    = "remove"
	HandlerPut       = "put"
	HandlerGive      = "give"
	HandlerEat       = "eat"
	HandlerDrink     = "drink"
	HandlerInventory = "inventory"
	HandlerEquipment = "equipment"
	HandlerBuild     = "build"
	HandlerCraft     = "craft"
	HandlerSay       = "say"
	HandlerEmote     = "emote"
	HandlerScore     = "score"
	HandlerHelp      = "help"
	HandlerQuit      = "quit"
)

// Command defines a player-invocable command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Usage shows the argument shape, empty when the command takes none.
	Usage string
	// Help is the short help text displayed to players.
	Help string
	// Category groups the command in the help listing.
	Category string
	// Handler selects the dispatcher handler.
	Handler string
	// WhileDead allows the command while the character awaits revival.
	WhileDead bool
}

// BuiltinCommands returns all built-in commands for the game.
func BuiltinCommands() []Command {
	return []Command{
		// Movement commands
		{Name: "north", Aliases: []string{"n"}, Help: "Move north", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "south", Aliases: []string{"s"}, Help: "Move south", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "east", Aliases: []string{"e"}, Help: "Move east", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "west", Aliases: []string{"w"}, Help: "Move west", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "up", Aliases: []string{"u"}, Help: "Climb up", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "down", Aliases: []string{"d"}, Help: "Go down", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "stand", Help: "Stand up", Category: CategoryMovement, Handler: HandlerPosture},
		{Name: "sit", Help: "Sit down", Category: CategoryMovement, Handler: HandlerPosture},
		{Name: "rest", Help: "Lie down and rest", Category: CategoryMovement, Handler: HandlerPosture},
		{Name: "stop", Help: "Stop what you are doing", Category: CategoryMovement, Handler: HandlerStop},

		// World commands
		{Name: "look", Aliases: []string{"l"}, Help: "Look around the current room", Category: CategoryWorld, Handler: HandlerLook},
		{Name: "map", Help: "Draw the surroundings you can see", Category: CategoryWorld, Handler: HandlerMap},
		{Name: "scout", Help: "Search the area for other characters", Category: CategoryWorld, Handler: HandlerScout},
		{Name: "open", Usage: "<door|direction>", Help: "Open a door", Category: CategoryWorld, Handler: HandlerOpen},
		{Name: "close", Usage: "<door|direction>", Help: "Close a door", Category: CategoryWorld, Handler: HandlerClose},

		// Combat commands
		{Name: "kill", Aliases: []string{"k"}, Usage: "<target>", Help: "Attack or focus a target", Category: CategoryCombat, Handler: HandlerKill},
		{Name: "flee", Help: "Try to escape from the fight", Category: CategoryCombat, Handler: HandlerFlee},
		{Name: "aim", Usage: "<target>", Help: "Aim a ranged weapon at a target in sight", Category: CategoryCombat, Handler: HandlerAim},
		{Name: "fire", Help: "Fire at the aimed target", Category: CategoryCombat, Handler: HandlerFire},
		{Name: "load", Usage: "<magazine> <projectile> [amount]", Help: "Load projectiles into a magazine", Category: CategoryCombat, Handler: HandlerLoad},
		{Name: "unload", Usage: "<item>", Help: "Empty a magazine or a ranged weapon", Category: CategoryCombat, Handler: HandlerUnload},
		{Name: "reload", Usage: "<weapon> <magazine>", Help: "Insert a magazine into a ranged weapon", Category: CategoryCombat, Handler: HandlerReload},

		// Item commands
		{Name: "take", Aliases: []string{"get"}, Usage: "<item>", Help: "Pick up an item", Category: CategoryItems, Handler: HandlerTake},
		{Name: "drop", Usage: "<item>", Help: "Drop an item", Category: CategoryItems, Handler: HandlerDrop},
		{Name: "wield", Usage: "<item>", Help: "Hold an item in your hands", Category: CategoryItems, Handler: HandlerWield},
		{Name: "wear", Usage: "<item>", Help: "Wear a piece of armor", Category: CategoryItems, Handler: HandlerWear},
		{Name: "remove", Usage: "<item>", Help: "Remove a held or worn item", Category: CategoryItems, Handler: HandlerRemove},
		{Name: "put", Usage: "<item> [in] <container>", Help: "Put an item in a container", Category: CategoryItems, Handler: HandlerPut},
		{Name: "give", Usage: "<item> [to] <character>", Help: "Give an item to someone", Category: CategoryItems, Handler: HandlerGive},
		{Name: "eat", Usage: "<food>", Help: "Eat something you carry", Category: CategoryItems, Handler: HandlerEat},
		{Name: "drink", Usage: "<drink>", Help: "Drink something you carry", Category: CategoryItems, Handler: HandlerDrink},
		{Name: "inventory", Aliases: []string{"i"}, Help: "List what you carry", Category: CategoryItems, Handler: HandlerInventory, WhileDead: true},
		{Name: "equipment", Aliases: []string{"eq"}, Help: "List what you wear and hold", Category: CategoryItems, Handler: HandlerEquipment, WhileDead: true},

		// Crafting commands
		{Name: "build", Usage: "<schematic>", Help: "Build a structure", Category: CategoryCrafting, Handler: HandlerBuild},
		{Name: "craft", Usage: "<schematic>", Help: "Craft an item", Category: CategoryCrafting, Handler: HandlerCraft},

		// Communication commands
		{Name: "say", Aliases: []string{"'"}, Usage: "<text>", Help: "Say something to the room", Category: CategoryCommunication, Handler: HandlerSay},
		{Name: "emote", Aliases: []string{":"}, Usage: "<text>", Help: "Act something out", Category: CategoryCommunication, Handler: HandlerEmote},

		// System commands
		{Name: "score", Help: "Show your condition and abilities", Category: CategorySystem, Handler: HandlerScore, WhileDead: true},
		{Name: "help", Aliases: []string{"?"}, Help: "Show available commands", Category: CategorySystem, Handler: HandlerHelp, WhileDead: true},
		{Name: "quit", Help: "Save and leave the game", Category: CategorySystem, Handler: HandlerQuit, WhileDead: true},
	}
}
