/*
The package sms implements the AT commands that are necessary for sending, listing, and deleting short messages
through a GSM modem in PDU mode. This implementation is solely based on:
  [AT] 3GPP TS 27.005 V17.0.0 (2022-03)
  [TL] 3GPP TS 23.040 V17.2.0 (2022-03)

The most relevant chapter in [AT] is 3 (Text and PDU mode), the PDUs themselves are handled by the package pdu.

Abbreviations:
PDU: Protocol Data Unit
TPDU: Transfer Protocol Data Unit, the PDU without the SMSC block
SMSC: Short Message Service Centre

Restrictions:
Only the PDU mode is supported, the text mode is not.

*/
package sms
