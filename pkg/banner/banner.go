package banner

import "fmt"

const banner = `
██╗███╗   ███╗ █████╗  ██████╗ ███████╗██████╗  ██████╗  █████╗ ██████╗ ██████╗
██║████╗ ████║██╔══██╗██╔════╝ ██╔════╝██╔══██╗██╔═══██╗██╔══██╗██╔══██╗██╔══██╗
██║██╔████╔██║███████║██║  ███╗█████╗  ██████╔╝██║   ██║███████║██████╔╝██║  ██║
██║██║╚██╔╝██║██╔══██║██║   ██║██╔══╝  ██╔══██╗██║   ██║██╔══██║██╔══██╗██║  ██║
██║██║ ╚═╝ ██║██║  ██║╚██████╔╝███████╗██████╔╝╚██████╔╝██║  ██║██║  ██║██████╔╝
╚═╝╚═╝     ╚═╝╚═╝  ╚═╝ ╚═════╝ ╚══════╝╚═════╝  ╚═════╝ ╚═╝  ╚═╝╚═╝  ╚═╝╚═════╝
`

// Print writes the startup banner with the effective runtime settings.
func Print(addr, dbPath, version string) {
	fmt.Print(banner)
	fmt.Println("== Config =====================================================")
	fmt.Printf("Listen:   %s\n", addr)
	fmt.Printf("DB Path:  %s\n", dbPath)
	if version != "" {
		fmt.Printf("Version:  %s\n", version)
	}
	fmt.Println("\n== Endpoints ==================================================")
	fmt.Println("GET  /              - Homepage (paginated thread list)")
	fmt.Println("GET  /thread/{id}   - View a thread and its replies")
	fmt.Println("POST /thread        - Create a thread (multipart, optional media)")
	fmt.Println("POST /reply         - Reply to a thread")
	fmt.Println("GET  /api/threads   - JSON thread listing")
	fmt.Println("GET  /metrics       - Prometheus metrics")
	fmt.Println()
}
