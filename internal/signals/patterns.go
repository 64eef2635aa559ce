package signals

import "regexp"

// Payment flow detection: checkout, processing, transactions. Protection and
// scam language is excluded separately via paymentNoise.
var rePaymentFlow = regexp.MustCompile(`(?i)\b(checkout|payment processing|managed payments|payment method|card declined|payment failed|payment error|payment stuck|can.?t pay|won.?t process|transaction failed|payment pending|funds held|funds on hold|payout|payout delay|payout pending|direct deposit|bank transfer|wire transfer|ach|instant transfer|payment option|apple pay|google pay|venmo|zelle)\b`)

// High-value payment issues on expensive items.
var reHighValuePayment = regexp.MustCompile(`(?i)(\$[1-9]\d{3,}|\$\d+k|\d+\s*thousand|expensive|high value|high.?end|graded|psa 10|bgs 10|gem mint).{0,30}(payment|pay|checkout|transaction|purchase|buy)`)

// Phrases that look like payment talk but are really protection or scam
// discussion, not payment flow.
var paymentNoise = []string{
	"buyer protection", "seller protection", "money back guarantee",
	"scam", "scammer", "scammed", "fraud", "fraudulent", "fake",
	"police report", "file a report", "report to",
	"chargeback", "dispute", "case opened", "case closed",
	"refund request", "return request",
}

// Unpaid-item and non-paying-buyer situations, including the account
// restrictions that follow them.
var reUnpaidItem = regexp.MustCompile(`(?i)(unpaid item|upi|non.?paying buyer|didn.?t pay|never paid|won.?t pay|payment pending|buyer.{0,5}(hasn.?t|didn.?t|won.?t).{0,5}pay|account.{0,10}(blocked|banned|restricted|suspended|limited)|blocked.{0,10}unpaid|banned.{0,10}unpaid|unpaid.{0,10}(strike|warning|block|ban|restrict)|strike.{0,10}unpaid|too many unpaid)`)

// High average selling price: $500+, investment-grade collectibles.
var reHighValue = regexp.MustCompile(`(?i)(\$[5-9]\d{2}|\$[1-9],?\d{3,}|\$\d+k|\d+\s*thousand|expensive|high.?value|investment|rare\s+(card|coin|comic)|valuable|psa\s*10|bgs\s*(10|9\.5)|gem\s*mint|pristine|six.?figure|five.?figure)`)

var reGradingDelay = regexp.MustCompile(`(?i)(psa|bgs|sgc|csg|cgc).{0,20}(turnaround|wait|days|weeks|months|delay|slow|fast|submit|submission|return|back)`)

// Authenticity Guarantee, the marketplace's authentication service.
var reAuthenticity = regexp.MustCompile(`(?i)(authenticity guarantee|ebay.{0,10}authenticat|authenticat.{0,10}ebay|\bAG\b.{0,10}ebay|ebay.{0,10}\bAG\b|authentication.{0,10}(card|sneaker|watch|collectible|handbag|jersey)|verified.{0,10}authentic|counterfeit.{0,10}ebay|ebay.{0,10}counterfeit|fake.{0,10}ebay|ebay.{0,10}fake|trust.{0,10}authenticity|authenticity.{0,10}(check|service|program|failed|passed|pending))`)

// Price Guide requires explicit product context to avoid generic
// card-value chatter.
var rePriceGuideExact = regexp.MustCompile(`(?i)(ebay.{0,12}price guide|price guide.{0,12}ebay|ebay.{0,12}price tool|card\s*ladder|cardladder|card-ladder|scan.?to.?price)`)

var rePriceGuideProduct = regexp.MustCompile(`(?i)(price guide|scan.?to.?price)`)

var reEbayWord = regexp.MustCompile(`(?i)\bebay\b`)

var priceGuideExclude = []string{
	"riftbound", "secret lair", "beanie", "logoman", "pikachu illustrator",
	"rookie debut patch", "record sale", "most expensive", "banger grail",
	"best app for value", "what's it worth", "worth anything", "price discrepancy",
	"need help pricing", "pricing you say",
}

// Vault covers both the marketplace vault and the grading service's vault.
var reVault = regexp.MustCompile(`(?i)(ebay.{0,10}vault|vault.{0,10}ebay|ebay vault|psa.{0,10}vault|vault.{0,10}psa|psa vault|vault storage|vault.{0,10}withdraw|withdraw.{0,10}vault|vault.{0,10}card|card.{0,10}vault|vault.{0,10}collectible|store.{0,10}vault|vault.{0,10}service|vault.{0,10}auction|auction.{0,10}vault|vault.{0,10}sell|sell.{0,10}vault|vault.{0,10}list|list.{0,10}vault|vault isn.?t|vault trust)`)

var reShipping = regexp.MustCompile(`(?i)(shipping|ship|delivery|deliver|package|parcel|usps|ups|fedex).{0,15}(lost|damage|delay|late|missing|broken|never|issue|problem)`)

var reRefund = regexp.MustCompile(`(?i)(refund|return|money back|chargeback|dispute|case).{0,15}(denied|reject|wait|pending|won|lost|issue|problem)`)

var reFees = regexp.MustCompile(`(?i)(fee|commission|final value|fvf|cost|charge).{0,15}(high|increase|too much|expensive|ridiculous|outrageous)`)

var reTrust = regexp.MustCompile(`(?i)(trust|trustworthy|legit|legitimate|counterfeit|fake|scam|scammer|fraud|fraudulent|sketchy|shady|suspicious|rip.?off|ripped off|stolen|theft|con artist|bad seller|bad buyer|buyer from hell|seller from hell|never buy from|avoid this|warning|beware|be careful)`)

// Competitive churn: users explicitly leaving for a competitor.
var reChurn = regexp.MustCompile(`(?i)(switch(?:ed|ing)?\s+to|mov(?:ed|ing)\s+to|left\s+ebay|leaving\s+ebay|done\s+with\s+ebay|quit\s+ebay|stop(?:ped)?\s+(?:using|selling\s+on|buying\s+on)\s+ebay|(?:fanatics|whatnot|mercari|stockx|heritage|goldin|alt)\s+(?:is|are)\s+(?:better|easier|cheaper)|rather\s+(?:use|sell\s+on|buy\s+on)\s+(?:fanatics|whatnot|mercari|stockx|heritage|goldin|alt))`)

// Explicitly positive platform signals, tracked for advocacy.
var rePraise = regexp.MustCompile(`(?i)(love\s+ebay|ebay\s+is\s+(?:great|amazing|awesome|the\s+best)|best\s+(?:marketplace|platform)|recommend\s+ebay|ebay\s+(?:nailed|knocked)\s+it|authenticity\s+guarantee\s+(?:is\s+)?(?:great|amazing|awesome)|vault\s+(?:is\s+)?(?:great|amazing|awesome)|price\s+guide\s+(?:is\s+)?(?:great|amazing|helpful))`)

// The in-domain gate: the post must touch either a marketplace collectibles
// feature or the collectibles hobby vocabulary before a primary subtag is
// attributed to the platform.
var reMarketplaceFeatures = regexp.MustCompile(`(?i)\b(vault|authenticity guarantee|ag |price guide|scan.?to.?price|managed payments|unpaid item|upi|buyer protection|seller protection|item not received|inr|item not as described|inad|final value fee|fvf|promoted listings)\b`)

var reCollectibles = regexp.MustCompile(`(?i)\b(trading card|sports card|baseball card|basketball card|football card|hockey card|pokemon|pokémon|tcg|psa|bgs|sgc|cgc|csg|beckett|graded|grading|slab|slabbed|raw card|gem mint|pop report|population|registry|crossover|regrade|vault|authentication|authenticity guarantee|ag |price guide|scan to price|comps|comp sales|wax|hobby box|blaster|case break|whatnot|goldin|pwcc|comc|alt marketplace|fanatics|topps|panini|upper deck|fleer|bowman|prizm|select|optic|mosaic|chrome|refractor|auto|autograph|patch|relic|rookie|rc |1st edition|charizard|pikachu|holo|holographic|insert|parallel|numbered|/99|/10|one of one|1/1|coin|bullion|silver|gold|numismatic|comic|cgc comic|funko|pop vinyl|collectible|memorabilia)\b`)

// Delay vocabulary for the vault strong combination.
var reDelayTerm = regexp.MustCompile(`(?i)\b(delay|delayed|stuck|wait|waiting|weeks|months|slow|forever)\b`)
