package auth

import (
	"fmt"
	"strings"
)

// ShowTokenGuide displays step-by-step instructions for obtaining a bearer token
func ShowTokenGuide() {
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("📚 API BEARER TOKEN GUIDE")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println()

	fmt.Println("This tool needs an API v2 bearer token to query the endpoints.")
	fmt.Println("Follow these steps to create one in the developer portal:")
	fmt.Println()

	fmt.Println("🌐 STEP 1: Open the developer portal")
	fmt.Println("   - Go to https://developer.twitter.com/en/portal/dashboard")
	fmt.Println("   - Sign in with the account that holds your developer access")
	fmt.Println()

	fmt.Println("🏗️  STEP 2: Create (or open) a project and app")
	fmt.Println("   - The search and counts endpoints require a project-attached app")
	fmt.Println("   - Full-archive counts additionally require academic research access")
	fmt.Println()

	fmt.Println("🔑 STEP 3: Generate the bearer token")
	fmt.Println("   1. Open your app's 'Keys and tokens' tab")
	fmt.Println("   2. Under 'Bearer Token', click 'Generate' (or 'Regenerate')")
	fmt.Println("   3. Copy the whole token. It is shown only once")
	fmt.Println()

	fmt.Println("💾 STEP 4: Store it")
	fmt.Println("   • Recommended: xplore auth login (encrypted at rest)")
	fmt.Println("   • One-off runs: export XPLORE_BEARER_TOKEN=...")
	fmt.Println()

	fmt.Println("💡 TIPS:")
	fmt.Println("   • Regenerating invalidates the previous token everywhere")
	fmt.Println("   • Rate limits are accounted per app, not per machine")
	fmt.Println()

	fmt.Println("⚠️  SECURITY WARNING:")
	fmt.Println("   • The token grants your app's full read quota")
	fmt.Println("   • NEVER commit it or share it")
	fmt.Println("   • Store it securely (this tool encrypts it)")
	fmt.Println()
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println()
}

// ShowQuickTokenGuide shows a condensed version for experienced users
func ShowQuickTokenGuide() {
	fmt.Println("\n🔑 Quick Guide: developer portal → your app → Keys and tokens → Bearer Token → Generate")
	fmt.Println("   Then: xplore auth login, or export XPLORE_BEARER_TOKEN=...")
	fmt.Println("   Type 'help' for detailed instructions")
}
