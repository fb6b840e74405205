package service

// Templates is the default search rotation. Each expression mixes domain
// keywords with the star and language qualifiers the search API accepts;
// ordering matters only for checkpoint resumption
var Templates = []string{
	"solana program language:rust stars:>=10",
	"anchor framework solana language:rust stars:>=5",
	"solana smart contract stars:>=5",
	"solana dex amm stars:>=2",
	"solana nft metaplex stars:>=2",
	"solana defi lending stars:>=2",
	"solana staking validator stars:>=2",
	"solana governance dao stars:>=2",
	"solana trading bot stars:>=2",
}
