// originprobe - origin server discovery for hosts behind a CDN or WAF
package main

func main() {
	Execute()
}
