package npc

var stageFirst = []string{
	"Nova", "Kite", "Luna", "Rico", "Jade", "Milo", "Sable", "Onyx", "Vera", "Zane",
	"Ivy", "Dex", "Aria", "Cruz", "Lux", "Remy", "Skye", "Tate", "Wren", "Yara",
	"Bo", "Cleo", "Echo", "Fable", "Gio", "Halo", "Indigo", "Juno", "Kai", "Lyric",
}

var stageLast = []string{
	"Vega", "Stone", "Rivers", "Knight", "Blaze", "Moreno", "Park", "Hale", "Frost", "Cole",
	"Santos", "Reyes", "Kim", "Lane", "Wilde", "Monroe", "Cruz", "Shaw", "Bloom", "Grey",
}

var bandNames = []string{
	"The Midnight Arcade", "Paper Tigers", "Velvet Static", "Neon Saints", "Glass Harbor",
	"Cold Coast", "Silver Lining Club", "The Night Shift", "Echo Park", "Wild Honey",
}

var titleAdjectives = []string{
	"Golden", "Broken", "Electric", "Lonely", "Neon", "Sweet", "Midnight", "Wild", "Silent", "Burning",
	"Paper", "Velvet", "Crystal", "Reckless", "Summer", "Cold", "Faded", "Endless", "Fearless", "Brand New",
}

var titleNouns = []string{
	"Hearts", "Streets", "Dreams", "Lights", "Fever", "Waves", "Gravity", "Roses", "Signals", "Skyline",
	"Heaven", "Diamonds", "Echoes", "Thunder", "Mirrors", "Highway", "Paradise", "Satellite", "Flames", "Tides",
}

var albumWords = []string{
	"Chapters", "Seasons", "Afterglow", "Blueprints", "Monuments", "Postcards", "Frequencies", "Origins",
}
