package taxonomy

// Built-in genre families.
const (
	RockPop         CanonicalGenre = "Rock/Pop"
	HipHopRap       CanonicalGenre = "Hip-hop/Rap"
	Electronic      CanonicalGenre = "Electronic"
	Metal           CanonicalGenre = "Metal"
	RnBSoul         CanonicalGenre = "R&B/Soul"
	Jazz            CanonicalGenre = "Jazz"
	Blues           CanonicalGenre = "Blues"
	FolkCountry     CanonicalGenre = "Folk/Country"
	Latin           CanonicalGenre = "Latin"
	Brazilian       CanonicalGenre = "Brazilian"
	Reggae          CanonicalGenre = "Reggae"
	Classical       CanonicalGenre = "Classical"
	World           CanonicalGenre = "World"
	SoundtrackScore CanonicalGenre = "Soundtrack/Score"
)

// Default returns the built-in definition. Each call returns a fresh copy.
func Default() Definition {
	return Definition{
		{Genre: RockPop, Aliases: []string{
			"rock", "pop", "alternative", "alternative rock", "indie", "indie rock", "indie pop",
			"classic rock", "hard rock", "punk", "punk rock", "pop punk", "post-punk", "grunge",
			"britpop", "new wave", "synthpop", "synth-pop", "dream pop", "shoegaze", "power pop",
			"psychedelic rock", "psychedelic", "garage rock", "progressive rock", "emo", "k-pop",
			"j-pop", "dance-pop", "art rock", "soft rock", "post-rock", "pop rock", "singer-songwriter",
		}},
		{Genre: HipHopRap, Aliases: []string{
			"hip-hop", "hip hop", "hiphop", "rap", "trap", "gangsta rap", "underground hip-hop",
			"conscious hip hop", "east coast rap", "west coast rap", "southern rap", "grime",
			"drill", "boom bap", "cloud rap", "horrorcore",
		}},
		{Genre: Electronic, Aliases: []string{
			"electronic", "electronica", "edm", "house", "deep house", "tech house", "techno",
			"trance", "dubstep", "drum and bass", "dnb", "jungle", "ambient", "idm", "downtempo",
			"trip-hop", "trip hop", "chillout", "electro", "breakbeat", "garage", "uk garage",
			"synthwave", "dance", "electropop", "hardstyle", "chillwave", "vaporwave",
		}},
		{Genre: Metal, Aliases: []string{
			"metal", "heavy metal", "death metal", "black metal", "thrash metal", "doom metal",
			"metalcore", "deathcore", "nu metal", "progressive metal", "power metal",
			"sludge metal", "stoner metal", "symphonic metal", "speed metal", "grindcore",
		}},
		{Genre: RnBSoul, Aliases: []string{
			"rnb", "r&b", "r and b", "rhythm and blues", "soul", "neo-soul", "neo soul", "funk",
			"motown", "contemporary r&b", "disco", "gospel", "quiet storm",
		}},
		{Genre: Jazz, Aliases: []string{
			"jazz", "smooth jazz", "bebop", "swing", "fusion", "jazz fusion", "acid jazz",
			"free jazz", "big band", "vocal jazz", "cool jazz", "hard bop", "nu jazz",
		}},
		{Genre: Blues, Aliases: []string{
			"blues", "blues rock", "delta blues", "electric blues", "chicago blues", "soul blues",
		}},
		{Genre: FolkCountry, Aliases: []string{
			"folk", "country", "americana", "bluegrass", "folk rock", "indie folk", "alt-country",
			"country rock", "outlaw country", "acoustic", "contemporary folk", "freak folk",
		}},
		{Genre: Latin, Aliases: []string{
			"latin", "reggaeton", "salsa", "bachata", "merengue", "cumbia", "latin pop", "tango",
			"flamenco", "latin rock", "urbano latino", "dembow", "regional mexicano", "mariachi",
		}},
		{Genre: Brazilian, Aliases: []string{
			"brazilian", "bossa nova", "mpb", "samba", "forro", "forró", "sertanejo", "axe",
			"pagode", "baile funk", "funk carioca", "tropicalia", "brazil", "choro",
		}},
		{Genre: Reggae, Aliases: []string{
			"reggae", "dub", "ska", "dancehall", "roots reggae", "rocksteady", "lovers rock",
		}},
		{Genre: Classical, Aliases: []string{
			"classical", "baroque", "opera", "romantic", "orchestral", "chamber music",
			"contemporary classical", "neoclassical", "piano", "symphony", "minimalism",
		}},
		{Genre: World, Aliases: []string{
			"world", "world music", "afrobeat", "afrobeats", "celtic", "african", "bollywood",
			"indian", "arabic", "fado", "klezmer", "balkan", "highlife", "k-indie",
		}},
		{Genre: SoundtrackScore, Aliases: []string{
			"soundtrack", "score", "film score", "ost", "video game music", "game soundtrack",
			"musical", "musicals", "broadway", "anime", "original soundtrack",
		}},
	}
}

// DefaultTable builds a [Table] from [Default].
func DefaultTable() *Table {
	return MustTable(Default())
}
