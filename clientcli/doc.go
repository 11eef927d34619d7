// Package clientcli provides a client for the tbxmanager.com REST API and
// the output formatting shared by the tbx commands.
//
// Every call is an HTTP GET on /api/v1/<path> with HTTP Basic
// authentication. Options other than the credentials travel as query
// parameters, and the response is reported whatever its status.
//
// # Basic Usage
//
//	cfg := &clientcli.Config{
//		Server:   "tbxmanager.com",
//		Login:    "alice",
//		Password: "secret",
//	}
//
//	client, err := clientcli.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	params := tbx.NewOptions()
//	params.Set("package", "mpt")
//	params.Set("version", "3.1.0")
//
//	resp, err := client.Call(ctx, "versions/create", params)
//	if err != nil {
//		resp = clientcli.ErrorResponse(err)
//	}
//	fmt.Println(resp)
//
// # Output Formatting
//
// Use formatters for human-readable or JSON output:
//
//	formatter := clientcli.NewFormatter(jsonOutput, quiet)
//	formatter.FormatResponse(os.Stdout, resp)
package clientcli
